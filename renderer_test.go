package piviz

import "testing"

func TestExpandRGBARoundTrip(t *testing.T) {
	// 3 rows × 2 cols with distinct channel values per pixel.
	buf := PixelBuffer{
		{{1, 2, 3}, {4, 5, 6}},
		{{7, 8, 9}, {10, 11, 12}},
		{{13, 14, 15}, {16, 17, 18}},
	}

	pix, w, h := ExpandRGBA(buf)
	if w != 2 || h != 3 {
		t.Fatalf("dimensions = %dx%d, want 2x3 (width=cols, height=rows)", w, h)
	}
	if len(pix) != 4*w*h {
		t.Fatalf("pixel data length = %d, want %d", len(pix), 4*w*h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := 4 * (y*w + x)
			src := buf[y][x]
			if pix[i] != src.R || pix[i+1] != src.G || pix[i+2] != src.B {
				t.Errorf("pixel (%d,%d) = %v %v %v, want %v", x, y, pix[i], pix[i+1], pix[i+2], src)
			}
			if pix[i+3] != 255 {
				t.Errorf("pixel (%d,%d) alpha = %d, want 255", x, y, pix[i+3])
			}
		}
	}
}

func TestExpandRGBARowMajorOrder(t *testing.T) {
	// First pixel of row 1 must land immediately after the last pixel
	// of row 0: the destination index advances 4 per source pixel with
	// rows outer, columns inner.
	buf := PixelBuffer{
		{{10, 0, 0}, {20, 0, 0}},
		{{30, 0, 0}, {40, 0, 0}},
	}
	pix, _, _ := ExpandRGBA(buf)
	order := []byte{pix[0], pix[4], pix[8], pix[12]}
	want := []byte{10, 20, 30, 40}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("flattening order = %v, want %v", order, want)
		}
	}
}

func TestExpandRGBAEmpty(t *testing.T) {
	pix, w, h := ExpandRGBA(nil)
	if pix != nil || w != 0 || h != 0 {
		t.Errorf("zero-row buffer: got %v %d %d, want nil 0 0", pix, w, h)
	}

	pix, w, h = ExpandRGBA(PixelBuffer{{}, {}})
	if pix != nil || w != 0 || h != 0 {
		t.Errorf("zero-col buffer: got %v %d %d, want nil 0 0", pix, w, h)
	}
}

func TestGroupInt(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{1, "1"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{10000000, "10,000,000"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		if got := GroupInt(tt.n); got != tt.want {
			t.Errorf("GroupInt(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatStats(t *testing.T) {
	res := &SimulationResult{
		PointsInside: 785,
		TotalPoints:  1000,
		PiEstimate:   3.14,
		AbsError:     0.0015926535897931,
		StdError:     0.0519615,
	}
	st := FormatStats(res)

	if st.Samples != "1,000" {
		t.Errorf("Samples = %q, want %q", st.Samples, "1,000")
	}
	if st.Inside != "785" {
		t.Errorf("Inside = %q, want %q", st.Inside, "785")
	}
	if st.Total != "1,000" {
		t.Errorf("Total = %q, want %q", st.Total, "1,000")
	}
	if st.Estimate != "3.1400" {
		t.Errorf("Estimate = %q, want %q", st.Estimate, "3.1400")
	}
	if st.Ratio != "0.7850" {
		t.Errorf("Ratio = %q, want %q", st.Ratio, "0.7850")
	}
	if st.AbsError != "0.0016" {
		t.Errorf("AbsError = %q, want %q", st.AbsError, "0.0016")
	}
	if st.StdError != "0.0520" {
		t.Errorf("StdError = %q, want %q", st.StdError, "0.0520")
	}
}

func TestFormatStatsZeroTotal(t *testing.T) {
	st := FormatStats(&SimulationResult{})
	if st.Ratio != "0.0000" {
		t.Errorf("Ratio for zero total = %q, want %q", st.Ratio, "0.0000")
	}
}
