package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testPlanes() [6]plane {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1.5, 1, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{1, 0, 10}, mgl32.Vec3{0, 0, 1})
	return extractFrustumPlanes(proj.Mul4(view))
}

func TestFrustumKeepsBoxAhead(t *testing.T) {
	planes := testPlanes()
	if !aabbInFrustum(mgl32.Vec3{50, -5, 0}, mgl32.Vec3{60, 5, 20}, planes) {
		t.Errorf("box straight ahead was culled")
	}
	// Straddles the near plane.
	if !aabbInFrustum(mgl32.Vec3{-5, -5, 0}, mgl32.Vec3{5, 5, 20}, planes) {
		t.Errorf("box around the eye was culled")
	}
}

func TestFrustumCullsBoxes(t *testing.T) {
	planes := testPlanes()
	cases := map[string][2]mgl32.Vec3{
		"behind":   {{-100, -5, 0}, {-50, 5, 20}},
		"far":      {{2000, -5, 0}, {2100, 5, 20}},
		"left":     {{50, 500, 0}, {60, 510, 20}},
		"below":    {{50, -5, -500}, {60, 5, -400}},
		"overhead": {{50, -5, 400}, {60, 5, 500}},
	}
	for name, box := range cases {
		if aabbInFrustum(box[0], box[1], planes) {
			t.Errorf("%s box was not culled", name)
		}
	}
}
