package game

// Vec - пара целых: позиция на доске или вектор прыжка.
// В JSON сериализуется как [x, y].
type Vec [2]int

// Add возвращает v+o
func (v Vec) Add(o Vec) Vec {
	return Vec{v[0] + o[0], v[1] + o[1]}
}

// vecSet - множество векторов с сохранением порядка добавления
type vecSet struct {
	order []Vec
	index map[Vec]struct{}
}

func newVecSet() *vecSet {
	return &vecSet{index: make(map[Vec]struct{})}
}

func (s *vecSet) Has(v Vec) bool {
	_, ok := s.index[v]
	return ok
}

// Add добавляет вектор; false если он уже был
func (s *vecSet) Add(v Vec) bool {
	if s.Has(v) {
		return false
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

func (s *vecSet) Len() int { return len(s.order) }

// List возвращает копию, чтобы наружу не утекал внутренний слайс
func (s *vecSet) List() []Vec {
	out := make([]Vec, len(s.order))
	copy(out, s.order)
	return out
}
