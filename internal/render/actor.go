package render

// Mapper binds a grid to the scalar array currently coloured on it.
type Mapper struct {
	input         *Grid
	scalars       []float64
	lo, hi        float64
	scalarVisible bool
}

// NewMapper creates a mapper reading from the given grid.
func NewMapper(input *Grid) *Mapper {
	return &Mapper{input: input}
}

// Input returns the grid this mapper reads from.
func (m *Mapper) Input() *Grid {
	return m.input
}

// SetScalars assigns the coloured array and its display range.
func (m *Mapper) SetScalars(values []float64, lo, hi float64) {
	m.scalars = append([]float64(nil), values...)
	m.lo, m.hi = lo, hi
	m.scalarVisible = true
}

// ClearScalars removes any colouring.
func (m *Mapper) ClearScalars() {
	m.scalars = nil
	m.lo, m.hi = 0, 0
	m.scalarVisible = false
}

// Scalars returns the coloured array.
func (m *Mapper) Scalars() []float64 {
	return m.scalars
}

// ScalarRange returns the display range.
func (m *Mapper) ScalarRange() (float64, float64) {
	return m.lo, m.hi
}

// ScalarVisibility reports whether scalars are shown.
func (m *Mapper) ScalarVisibility() bool {
	return m.scalarVisible
}

// Representation selects how an actor draws its cells.
type Representation int

const (
	Surface Representation = iota
	Wireframe
)

func (r Representation) String() string {
	if r == Wireframe {
		return "wire"
	}
	return "surface"
}

// Actor is a displayable instance of a mapper.
type Actor struct {
	mapper         *Mapper
	visible        bool
	representation Representation
	Color          [3]float64
	LineWidth      float64
	Opacity        float64
}

// NewActor returns a visible surface actor.
func NewActor(mapper *Mapper) *Actor {
	return &Actor{
		mapper:    mapper,
		visible:   true,
		Color:     [3]float64{1, 1, 1},
		LineWidth: 1,
		Opacity:   1,
	}
}

// Mapper returns the actor's mapper.
func (a *Actor) Mapper() *Mapper {
	return a.mapper
}

// SetVisibility shows or hides the actor.
func (a *Actor) SetVisibility(visible bool) {
	a.visible = visible
}

// Visible reports the actor visibility.
func (a *Actor) Visible() bool {
	return a.visible
}

// SetRepresentation switches between surface and wireframe.
func (a *Actor) SetRepresentation(r Representation) {
	a.representation = r
}

// Representation returns the draw mode.
func (a *Actor) Representation() Representation {
	return a.representation
}
