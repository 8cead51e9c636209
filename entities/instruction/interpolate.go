package instruction

// Expand materializes a sparse stroke into the denser path used for replay.
// Each segment with speed s gains max(0, s-1) evenly spaced intermediate
// points, so s=5 splits a segment into five equal sub-segments. Speeds
// outside [1,5] are clamped before use; a nil speeds slice means no
// interpolation. The original control points always appear in the output, in
// traversal order, and consecutive duplicates are collapsed.
//
// Expand is pure: it never mutates its arguments and identical inputs yield
// identical outputs.
func Expand(points []Point, speeds []int) ([]Point, error) {
	if len(points) < 2 {
		return nil, &InvalidStrokeHintError{Reason: "a stroke needs at least 2 points"}
	}
	if speeds != nil && len(speeds) != len(points)-1 {
		return nil, &InvalidStrokeHintError{
			Reason: "speeds length must equal point count minus one",
		}
	}

	out := make([]Point, 0, len(points))
	out = append(out, points[0])

	for i := 0; i < len(points)-1; i++ {
		speed := 1
		if speeds != nil {
			speed = clampSpeed(speeds[i])
		}

		p1, p2 := points[i], points[i+1]
		for step := 1; step < speed; step++ {
			alpha := float64(step) / float64(speed)
			out = appendPoint(out, Point{
				X: p1.X + alpha*(p2.X-p1.X),
				Y: p1.Y + alpha*(p2.Y-p1.Y),
			})
		}
		out = appendPoint(out, p2)
	}

	return out, nil
}

func clampSpeed(s int) int {
	if s < 1 {
		return 1
	}
	if s > 5 {
		return 5
	}
	return s
}

// appendPoint skips consecutive duplicates.
func appendPoint(pts []Point, p Point) []Point {
	if n := len(pts); n > 0 && pts[n-1] == p {
		return pts
	}
	return append(pts, p)
}
