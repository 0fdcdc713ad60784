package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gridjump/internal/game"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort       string
	DatabaseURL   string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AllowedOrigin string
	RateLimit     int // запросов в минуту на IP, 0 - без лимита
	LogLevel      string
	LogJSON       bool

	Game game.Settings
}

// FileSettings - формат файла настроек игры. Длительности в миллисекундах,
// поля совпадают со старым settings.json, так что JSON читается как YAML.
type FileSettings struct {
	Width        *int     `yaml:"width,omitempty"`
	Height       *int     `yaml:"height,omitempty"`
	TurnDelay    *int64   `yaml:"turnDelay,omitempty"`
	StartDelay   *int64   `yaml:"startDelay,omitempty"`
	MinPlayers   *int     `yaml:"minPlayers,omitempty"`
	MaxPlayers   *int     `yaml:"maxPlayers,omitempty"`
	PointDensity *float64 `yaml:"pointDensity,omitempty"`
	JumpTurns    *int     `yaml:"jumpTurns,omitempty"`
	InventTurns  *int     `yaml:"inventTurns,omitempty"`
	MaxTurns     *int     `yaml:"maxTurns,omitempty"`
}

// Load читает .env (если есть), файл настроек игры и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv собирает конфиг только из окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_FORMAT") == "json",
		Game:          game.DefaultSettings(),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = envInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}

	if path := os.Getenv("GAME_SETTINGS_FILE"); path != "" {
		fsets, err := ReadSettingsFile(path)
		if err != nil {
			return nil, err
		}
		fsets.Apply(&cfg.Game)
	}
	if err := applyGameEnv(&cfg.Game); err != nil {
		return nil, err
	}
	if err := cfg.Game.Validate(); err != nil {
		return nil, fmt.Errorf("game settings: %w", err)
	}
	return cfg, nil
}

// ReadSettingsFile разбирает YAML/JSON файл настроек
func ReadSettingsFile(path string) (*FileSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game settings: %w", err)
	}
	var fsets FileSettings
	if err := yaml.Unmarshal(data, &fsets); err != nil {
		return nil, fmt.Errorf("parse game settings %s: %w", path, err)
	}
	return &fsets, nil
}

// Apply накладывает заданные в файле поля поверх s
func (f *FileSettings) Apply(s *game.Settings) {
	if f.Width != nil {
		s.Width = *f.Width
	}
	if f.Height != nil {
		s.Height = *f.Height
	}
	if f.TurnDelay != nil {
		s.TurnDelay = time.Duration(*f.TurnDelay) * time.Millisecond
	}
	if f.StartDelay != nil {
		s.StartDelay = time.Duration(*f.StartDelay) * time.Millisecond
	}
	if f.MinPlayers != nil {
		s.MinPlayers = *f.MinPlayers
	}
	if f.MaxPlayers != nil {
		s.MaxPlayers = *f.MaxPlayers
	}
	if f.PointDensity != nil {
		s.PointDensity = *f.PointDensity
	}
	if f.JumpTurns != nil {
		s.JumpTurns = *f.JumpTurns
	}
	if f.InventTurns != nil {
		s.InventTurns = *f.InventTurns
	}
	if f.MaxTurns != nil {
		s.MaxTurns = *f.MaxTurns
	}
}

// SettingsToFile - обратное преобразование, для вывода действующих настроек
func SettingsToFile(s game.Settings) FileSettings {
	turn := s.TurnDelay.Milliseconds()
	start := s.StartDelay.Milliseconds()
	return FileSettings{
		Width:        &s.Width,
		Height:       &s.Height,
		TurnDelay:    &turn,
		StartDelay:   &start,
		MinPlayers:   &s.MinPlayers,
		MaxPlayers:   &s.MaxPlayers,
		PointDensity: &s.PointDensity,
		JumpTurns:    &s.JumpTurns,
		InventTurns:  &s.InventTurns,
		MaxTurns:     &s.MaxTurns,
	}
}

func applyGameEnv(s *game.Settings) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"BOARD_WIDTH", &s.Width},
		{"BOARD_HEIGHT", &s.Height},
		{"MIN_PLAYERS", &s.MinPlayers},
		{"MAX_PLAYERS", &s.MaxPlayers},
		{"JUMP_TURNS", &s.JumpTurns},
		{"INVENT_TURNS", &s.InventTurns},
		{"MAX_TURNS", &s.MaxTurns},
	}
	for _, it := range ints {
		v, err := envInt(it.key, *it.dst)
		if err != nil {
			return err
		}
		*it.dst = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"TURN_DELAY", &s.TurnDelay},
		{"START_DELAY", &s.StartDelay},
	}
	for _, d := range durations {
		raw := os.Getenv(d.key)
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}

	if raw := os.Getenv("POINT_DENSITY"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("POINT_DENSITY: %w", err)
		}
		s.PointDensity = v
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
