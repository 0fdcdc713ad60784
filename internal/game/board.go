package game

import (
	"math/rand"
	"strings"
)

type Cell byte

const (
	CellEmpty Cell = '.'
	CellPoint Cell = '$'
)

// Board - сетка width x height, индексируется как cells[x][y]
type Board struct {
	width  int
	height int
	cells  [][]Cell
}

// NewBoard создает пустую доску
func NewBoard(width, height int) *Board {
	cells := make([][]Cell, width)
	for x := range cells {
		row := make([]Cell, height)
		for y := range row {
			row[y] = CellEmpty
		}
		cells[x] = row
	}
	return &Board{width: width, height: height, cells: cells}
}

func (b *Board) InBounds(p Vec) bool {
	return p[0] >= 0 && p[1] >= 0 && p[0] < b.width && p[1] < b.height
}

func (b *Board) At(p Vec) Cell {
	return b.cells[p[0]][p[1]]
}

func (b *Board) Set(p Vec, c Cell) {
	b.cells[p[0]][p[1]] = c
}

// Consume забирает очко с клетки; true если оно там было
func (b *Board) Consume(p Vec) bool {
	if b.At(p) != CellPoint {
		return false
	}
	b.Set(p, CellEmpty)
	return true
}

// Points считает оставшиеся на доске очки
func (b *Board) Points() int {
	n := 0
	for _, row := range b.cells {
		for _, c := range row {
			if c == CellPoint {
				n++
			}
		}
	}
	return n
}

// Rows отдает доску строками: Rows()[x][y]
func (b *Board) Rows() []string {
	out := make([]string, b.width)
	var sb strings.Builder
	for x, row := range b.cells {
		sb.Reset()
		for _, c := range row {
			sb.WriteByte(byte(c))
		}
		out[x] = sb.String()
	}
	return out
}

// placePlayers выдает n различных случайных позиций (перевыбор при совпадении)
func placePlayers(rng *rand.Rand, width, height, n int) []Vec {
	used := make(map[Vec]struct{}, n)
	out := make([]Vec, 0, n)
	for len(out) < n {
		p := Vec{rng.Intn(width), rng.Intn(height)}
		if _, taken := used[p]; taken {
			continue
		}
		used[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// generateBoard заполняет каждую свободную клетку очком с вероятностью density
func generateBoard(rng *rand.Rand, width, height int, density float64, occupied []Vec) *Board {
	b := NewBoard(width, height)
	skip := make(map[Vec]struct{}, len(occupied))
	for _, p := range occupied {
		skip[p] = struct{}{}
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			p := Vec{x, y}
			if _, ok := skip[p]; ok {
				continue
			}
			if rng.Float64() < density {
				b.Set(p, CellPoint)
			}
		}
	}
	return b
}
