package analyzer

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/rewired-gh/peakstats/internal/models"
)

// Product is the result of folding vectors through dot products: either a
// scalar or, once a scalar meets another vector, a scaled vector.
type Product struct {
	Scalar float64
	Vector []float64
	scalar bool
}

// IsScalar reports whether the product collapsed to a single number.
func (p Product) IsScalar() bool { return p.scalar }

func (p Product) String() string {
	if p.scalar {
		return fmt.Sprint(p.Scalar)
	}
	return fmt.Sprint(p.Vector)
}

// Dot returns the inner product of a and b.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &models.DimensionMismatchError{Left: len(a), Right: len(b)}
	}
	return floats.Dot(a, b), nil
}

// DotProduct left-folds vectors through pairwise products. Two vectors give
// their inner product; a scalar times a vector gives the scaled vector.
func DotProduct(vectors ...[]float64) (Product, error) {
	if len(vectors) == 0 {
		return Product{}, errors.New("dot product needs at least one vector")
	}
	acc := Product{Vector: append([]float64{}, vectors[0]...)}
	for _, v := range vectors[1:] {
		if acc.scalar {
			acc = Product{Vector: floats.ScaleTo(make([]float64, len(v)), acc.Scalar, v)}
			continue
		}
		s, err := Dot(acc.Vector, v)
		if err != nil {
			return Product{}, err
		}
		acc = Product{Scalar: s, scalar: true}
	}
	return acc, nil
}

// Vector returns a column's values as numbers and prints them.
func (a *Analyzer) Vector(column string) ([]float64, error) {
	values, err := a.floats(column)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "\nVector for column '%s':\n%v\n\n", column, values)
	return values, nil
}

// DotProduct folds vectors as the package-level DotProduct does and prints the result.
func (a *Analyzer) DotProduct(vectors ...[]float64) (Product, error) {
	p, err := DotProduct(vectors...)
	if err != nil {
		return Product{}, err
	}
	fmt.Fprintf(a.out, "\nDot product result:\n%s\n\n", p)
	return p, nil
}
