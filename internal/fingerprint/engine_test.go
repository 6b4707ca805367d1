package fingerprint

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// twoTonePNG — 512×512: левая половина чёрная, правая белая.
func twoTonePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 512, 512))
	for y := 0; y < 512; y++ {
		for x := 256; x < 512; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestComputeDeterministic(t *testing.T) {
	e := NewEngine()
	data := twoTonePNG(t)

	v1, err := e.Compute(data)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	v2, err := e.Compute(data)
	if err != nil {
		t.Fatalf("Compute повторно: %v", err)
	}
	if len(v1) != len(v2) {
		t.Fatalf("длины векторов не равны: %d и %d", len(v1), len(v2))
	}
	for i := range v1 {
		if v1[i].Name != v2[i].Name || v1[i].Hash != v2[i].Hash {
			t.Errorf("вариант %d недетерминирован: %s vs %s", i, v1[i].Hash, v2[i].Hash)
		}
	}
}

func TestComputeVariantOrder(t *testing.T) {
	e := NewEngine()
	vec, err := e.Compute(twoTonePNG(t))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(vec) != len(DefaultVariants) {
		t.Fatalf("вариантов %d, ожидалось %d", len(vec), len(DefaultVariants))
	}
	for i, v := range DefaultVariants {
		if vec[i].Name != v.Name {
			t.Errorf("вариант %d: имя %q, ожидалось %q", i, vec[i].Name, v.Name)
		}
	}
}

func TestComputeDecodeError(t *testing.T) {
	e := NewEngine()
	_, err := e.Compute([]byte("definitely not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("ожидался ErrDecode, получен %v", err)
	}
}

// Хеш двухцветной картинки: биты стоят на светлой половине сетки.
func TestWhashTwoTone(t *testing.T) {
	e := NewEngine(DefaultVariants[0]) // без кропа, fit
	vec, err := e.Compute(twoTonePNG(t))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	h := vec[0].Hash

	var left, right int
	for row := 0; row < 16; row++ {
		for col := 0; col < 16; col++ {
			if !h.Bit(row*16 + col) {
				continue
			}
			if col < 8 {
				left++
			} else {
				right++
			}
		}
	}
	// граница половин может размыться ресемплингом на одну колонку блоков
	if right < 112 {
		t.Errorf("светлая половина должна быть почти вся поднята, бит: %d", right)
	}
	if left > 16 {
		t.Errorf("тёмная половина должна быть почти вся опущена, бит: %d", left)
	}
}

// Порог-медиана: поднято не больше половины битов.
func TestWhashMedianProperty(t *testing.T) {
	e := NewEngine()
	vec, err := e.Compute(twoTonePNG(t))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for _, vh := range vec {
		var zero Hash
		if n := vh.Hash.Distance(zero); n > HashBits/2 {
			t.Errorf("%s: %d битов подняты, медианный порог допускает максимум %d", vh.Name, n, HashBits/2)
		}
	}
}

func TestDiffSelfIsZero(t *testing.T) {
	e := NewEngine()
	vec, err := e.Compute(twoTonePNG(t))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	d, err := Diff(vec, vec)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(d) != len(DefaultVariants) {
		t.Fatalf("в diff-векторе %d фич, ожидалось %d", len(d), len(DefaultVariants))
	}
	for name, dist := range d {
		if dist != 0 {
			t.Errorf("%s: расстояние до самого себя %d", name, dist)
		}
	}
}
