package grid

import (
	"fmt"
)

// Side labels the four edges of the rectangular domain
type Side uint8

const (
	Bottom Side = iota
	Right
	Top
	Left
)

var SideNames = [4]string{"bottom", "right", "top", "left"}

func (s Side) String() string { return SideNames[s] }

func ParseSide(name string) (s Side, err error) {
	for i, n := range SideNames {
		if n == name {
			s = Side(i)
			return
		}
	}
	err = fmt.Errorf("unknown domain side %q", name)
	return
}

type Vertex struct {
	Idx   int
	X     [2]float64
	Sides [4]bool // Domain sides this vertex lies on
}

func (v Vertex) OnBoundary() bool {
	return v.Sides[Bottom] || v.Sides[Right] || v.Sides[Top] || v.Sides[Left]
}

func (v Vertex) OnSide(s Side) bool { return v.Sides[s] }

// Rect2D is a structured grid of NX by NY quadrilaterals covering [0,LX]x[0,LY].
// Vertex (i,j) has index i+j*(NX+1), element (ci,cj) has index ci+cj*NX.
type Rect2D struct {
	NX, NY   int
	LX, LY   float64
	DX, DY   float64
	Vertices []Vertex
	Elements [][4]int // Local order: (0,0) (1,0) (0,1) (1,1)
	geometry []ElementGeometry
}

func NewRect2D(NX, NY int, LX, LY float64) (g *Rect2D) {
	if NX < 1 || NY < 1 || LX <= 0 || LY <= 0 {
		panic(fmt.Errorf("invalid grid dimensions %dx%d over %gx%g", NX, NY, LX, LY))
	}
	g = &Rect2D{
		NX: NX, NY: NY,
		LX: LX, LY: LY,
		DX: LX / float64(NX), DY: LY / float64(NY),
	}
	g.Vertices = make([]Vertex, (NX+1)*(NY+1))
	for j := 0; j <= NY; j++ {
		for i := 0; i <= NX; i++ {
			v := &g.Vertices[i+j*(NX+1)]
			v.Idx = i + j*(NX+1)
			v.X = [2]float64{float64(i) * g.DX, float64(j) * g.DY}
			v.Sides[Bottom] = j == 0
			v.Sides[Top] = j == NY
			v.Sides[Left] = i == 0
			v.Sides[Right] = i == NX
		}
	}
	g.Elements = make([][4]int, NX*NY)
	g.geometry = make([]ElementGeometry, NX*NY)
	for cj := 0; cj < NY; cj++ {
		for ci := 0; ci < NX; ci++ {
			k := ci + cj*NX
			v0 := ci + cj*(NX+1)
			g.Elements[k] = [4]int{v0, v0 + 1, v0 + NX + 1, v0 + NX + 2}
			g.geometry[k] = g.newElementGeometry(k, ci, cj)
		}
	}
	return
}

func (g *Rect2D) NumVertices() int { return len(g.Vertices) }
func (g *Rect2D) NumElements() int { return len(g.Elements) }

// Geometry returns the precomputed box geometry of element k
func (g *Rect2D) Geometry(k int) *ElementGeometry {
	return &g.geometry[k]
}

// VertexVolume is the sum of all sub control volumes around vertex v
func (g *Rect2D) VertexVolume(v int) (vol float64) {
	var (
		fx = 1.
		fy = 1.
	)
	if g.Vertices[v].Sides[Left] || g.Vertices[v].Sides[Right] {
		fx = 0.5
	}
	if g.Vertices[v].Sides[Bottom] || g.Vertices[v].Sides[Top] {
		fy = 0.5
	}
	vol = fx * fy * g.DX * g.DY
	return
}
