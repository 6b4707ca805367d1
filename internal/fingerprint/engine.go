package fingerprint

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

const (
	// targetSize — сторона изображения после приведения (512×512).
	targetSize = 512
	// hashSize — сторона сетки хеша (16×16 = 256 бит).
	hashSize = 16
)

// ErrDecode — байты не являются поддерживаемым изображением.
var ErrDecode = errors.New("fingerprint: не удалось декодировать изображение")

// Variant — один вариант предобработки перед хешированием: симметричный кроп
// в процентах и способ приведения к targetSize (вписать с обрезкой или растянуть).
type Variant struct {
	Name           string
	CropWidthPerc  float64
	CropHeightPerc float64
	Fit            bool
}

// DefaultVariants — фиксированная таблица из 8 вариантов; её имена задают
// фича-пространство классификатора (см. classifier: фичи сортируются по имени,
// как колонки в обучающей выборке).
var DefaultVariants = []Variant{
	{Name: "crop_00_00_fit", CropWidthPerc: 0, CropHeightPerc: 0, Fit: true},
	{Name: "crop_00_10_fit", CropWidthPerc: 0, CropHeightPerc: 0.1, Fit: true},
	{Name: "crop_10_00_fit", CropWidthPerc: 0.1, CropHeightPerc: 0, Fit: true},
	{Name: "crop_10_10_fit", CropWidthPerc: 0.1, CropHeightPerc: 0.1, Fit: true},

	{Name: "crop_00_00_stretch", CropWidthPerc: 0, CropHeightPerc: 0, Fit: false},
	{Name: "crop_00_10_stretch", CropWidthPerc: 0, CropHeightPerc: 0.1, Fit: false},
	{Name: "crop_10_00_stretch", CropWidthPerc: 0.1, CropHeightPerc: 0, Fit: false},
	{Name: "crop_10_10_stretch", CropWidthPerc: 0.1, CropHeightPerc: 0.1, Fit: false},
}

// Engine считает вектор отпечатка по фиксированной таблице вариантов.
// Безопасен для конкурентного использования (таблица неизменяема).
type Engine struct {
	variants []Variant
}

// NewEngine создаёт движок; пустой список вариантов — DefaultVariants.
func NewEngine(variants ...Variant) *Engine {
	if len(variants) == 0 {
		variants = DefaultVariants
	}
	return &Engine{variants: variants}
}

// Variants возвращает таблицу вариантов (в порядке вектора).
func (e *Engine) Variants() []Variant { return e.variants }

// Compute декодирует изображение и считает вектор (имя варианта, хеш) в порядке
// таблицы. Детерминирован по входным байтам.
func (e *Engine) Compute(data []byte) (Vector, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	vec := make(Vector, 0, len(e.variants))
	for _, v := range e.variants {
		vec = append(vec, VariantHash{Name: v.Name, Hash: whash(prepareImage(img, v))})
	}
	return vec, nil
}

// prepareImage: перевод в оттенки серого, симметричный кроп (отступ с каждой
// стороны = размер * процент / 2), затем приведение к targetSize×targetSize —
// Fill (вписать с обрезкой по центру) либо Resize (растянуть). Lanczos в обоих
// случаях.
func prepareImage(img image.Image, v Variant) *image.NRGBA {
	res := imaging.Grayscale(img)
	b := res.Bounds()
	w, h := b.Dx(), b.Dy()
	cw := int(float64(w) * v.CropWidthPerc / 2)
	ch := int(float64(h) * v.CropHeightPerc / 2)
	if cw > 0 || ch > 0 {
		res = imaging.Crop(res, image.Rect(cw, ch, w-cw, h-ch))
	}
	if v.Fit {
		return imaging.Fill(res, targetSize, targetSize, imaging.Center, imaging.Lanczos)
	}
	return imaging.Resize(res, targetSize, targetSize, imaging.Lanczos)
}

// whash — вейвлет-хеш 16×16 изображения 512×512 в оттенках серого: LL-полоса
// пятиуровневого разложения Хаара (для Хаара это средние по блокам 32×32 с
// точностью до множителя), порог — медиана. Вычитание глобального среднего
// (удаление LL максимального уровня) сдвигает и значения, и медиану одинаково,
// поэтому на биты не влияет и опущено.
func whash(img *image.NRGBA) Hash {
	const block = targetSize / hashSize

	var means [hashSize * hashSize]float64
	for by := 0; by < hashSize; by++ {
		for bx := 0; bx < hashSize; bx++ {
			var sum uint64
			for y := by * block; y < (by+1)*block; y++ {
				row := img.Pix[y*img.Stride : y*img.Stride+targetSize*4]
				for x := bx * block; x < (bx+1)*block; x++ {
					// после Grayscale R==G==B; достаточно одного канала
					sum += uint64(row[x*4])
				}
			}
			means[by*hashSize+bx] = float64(sum) / (block * block * 255)
		}
	}

	med := median(means[:])
	var h Hash
	for i, m := range means {
		if m > med {
			h.SetBit(i)
		}
	}
	return h
}

// median — медиана; для чётной длины среднее двух центральных (как numpy.median).
func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
