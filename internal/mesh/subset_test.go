package mesh

import "testing"

func TestSubsetInvariants(t *testing.T) {
	m := Plane("plane", 6)
	c := m.Subset(m.Indices)

	if len(c.Coarse) == 0 || len(c.Coarse) >= m.VertexCount() {
		t.Fatalf("coarse count = %d of %d", len(c.Coarse), m.VertexCount())
	}

	isCoarse := make(map[int32]bool)
	for _, v := range c.Coarse {
		isCoarse[v] = true
	}
	for i, closest := range c.Closest {
		switch {
		case isCoarse[int32(i)]:
			if closest != int32(i) {
				t.Errorf("coarse vertex %d maps to %d", i, closest)
			}
		case closest != noCoarseNeighbour && !isCoarse[closest]:
			t.Errorf("fine vertex %d maps to fine vertex %d", i, closest)
		}
	}

	for i := 0; i+2 < len(c.Triangles); i += 3 {
		a, b, d := c.Triangles[i], c.Triangles[i+1], c.Triangles[i+2]
		if a == b || b == d || a == d {
			t.Errorf("triangle %d is degenerate: %d %d %d", i/3, a, b, d)
		}
		for _, v := range []int32{a, b, d} {
			if !isCoarse[v] {
				t.Errorf("triangle %d references fine vertex %d", i/3, v)
			}
		}
	}
}

func TestSubsetSingleTriangle(t *testing.T) {
	positions := []float32{
		0, 0, 0,
		0.1, 0, 0,
		0, 0, 1,
	}
	c := Subset(positions, []int32{0, 1, 2})

	// vertex 0 goes fine first, after which 1 and 2 drop below k
	if len(c.Coarse) != 2 || c.Coarse[0] != 1 || c.Coarse[1] != 2 {
		t.Fatalf("Coarse = %v, want [1 2]", c.Coarse)
	}
	if c.Closest[0] != 1 {
		t.Errorf("Closest[0] = %d, want nearest vertex 1", c.Closest[0])
	}
	if len(c.Triangles) != 0 {
		t.Errorf("collapsed triangle kept: %v", c.Triangles)
	}
}

func TestSubsetUnreferencedVertex(t *testing.T) {
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 0, 1, 9, 9, 9}
	c := Subset(positions, []int32{0, 2, 1})
	if c.Closest[3] != noCoarseNeighbour {
		t.Errorf("unreferenced vertex maps to %d, want -1", c.Closest[3])
	}
}

func TestSubsetOfSubset(t *testing.T) {
	m := ICOSphere("ico", 2)
	l1 := m.Subset(m.Indices)
	l2 := m.Subset(l1.Triangles)

	in1 := make(map[int32]bool)
	for _, v := range l1.Coarse {
		in1[v] = true
	}
	for _, v := range l2.Coarse {
		if !in1[v] {
			t.Errorf("level 2 keeps vertex %d missing from level 1", v)
		}
	}
	if len(l2.Coarse) > len(l1.Coarse) {
		t.Errorf("level 2 grew: %d > %d", len(l2.Coarse), len(l1.Coarse))
	}
}
