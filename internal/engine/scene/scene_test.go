package scene

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/Faultbox/mobius-paper/internal/engine/motion"
	"github.com/Faultbox/mobius-paper/pkg/math"
	"github.com/Faultbox/mobius-paper/pkg/mobius"
)

func TestVertexLayoutMatchesMesh(t *testing.T) {
	var v mobius.Vertex
	if got := unsafe.Sizeof(v); got != vertexStride {
		t.Errorf("sizeof(Vertex) = %d, want %d", got, vertexStride)
	}
	if got := unsafe.Offsetof(v.Normal); got != normalOffset {
		t.Errorf("Normal offset = %d, want %d", got, normalOffset)
	}
	if got := unsafe.Offsetof(v.TexCoord); got != texCoordOffset {
		t.Errorf("TexCoord offset = %d, want %d", got, texCoordOffset)
	}
}

func TestDefaultMaterial(t *testing.T) {
	m := DefaultMaterial()
	if m.Roughness != 0.9 || m.Metalness != 0 || !m.DoubleSided {
		t.Errorf("DefaultMaterial() = %+v", m)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestMaterialValidate(t *testing.T) {
	tests := []Material{
		{Roughness: -0.1},
		{Roughness: 1.5},
		{Metalness: 2},
	}
	for _, m := range tests {
		if err := m.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", m)
		}
	}
}

func TestNewRejectsEmptyMesh(t *testing.T) {
	if _, err := New(nil, &mobius.Mesh{}, DefaultOptions()); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("New(empty mesh) error = %v, want ErrEmptyMesh", err)
	}
}

func TestModelMatrixFollowsSpin(t *testing.T) {
	s := motion.Advance(motion.Spin{}, 2)
	x, y := s.Angles(motion.DefaultRates())

	got := ModelMatrix(x, y)
	want := math.RotateX(x).Mul(math.RotateY(y))
	for i := range got {
		if d := got[i] - want[i]; d > 1e-6 || d < -1e-6 {
			t.Fatalf("ModelMatrix()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// At t=0 the strip is unrotated.
	identity := math.Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if ModelMatrix(0, 0) != identity {
		t.Error("ModelMatrix(0, 0) is not identity")
	}
}
