package domain

import "fmt"

// BoundingBox is an axis-aligned box in page-normalized coordinates,
// so every coordinate lies in [0,1] with the origin at the top-left.
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.Y1 - b.Y0 }

// CenterX returns the horizontal center of the box.
func (b BoundingBox) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 { return (b.Y0 + b.Y1) / 2 }

// Union returns the smallest box covering both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	u := b
	if other.X0 < u.X0 {
		u.X0 = other.X0
	}
	if other.Y0 < u.Y0 {
		u.Y0 = other.Y0
	}
	if other.X1 > u.X1 {
		u.X1 = other.X1
	}
	if other.Y1 > u.Y1 {
		u.Y1 = other.Y1
	}
	return u
}

// OverlapsX reports whether the horizontal ranges of two boxes intersect.
func (b BoundingBox) OverlapsX(other BoundingBox) bool {
	return b.X1 > other.X0 && other.X1 > b.X0
}

func (b BoundingBox) valid() bool {
	return b.X0 >= 0 && b.Y0 >= 0 &&
		b.X1 <= 1 && b.Y1 <= 1 &&
		b.X0 <= b.X1 && b.Y0 <= b.Y1
}

// Token is a single OCR-recognized text fragment. Tokens are produced by the
// upstream OCR collaborator and are immutable once handed to the pipeline.
type Token struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
	PageIndex  int         `json:"page_index"`
}

// ValidateTokens checks the structural contract of an incoming token
// sequence. A violation is fatal to the whole pipeline invocation and is
// reported as a wrapped ErrStructuralInput; document-quality problems
// (unreadable text, missing fields) are never reported here.
func ValidateTokens(tokens []Token) error {
	for i, t := range tokens {
		if t.Text == "" {
			return fmt.Errorf("%w: token %d has empty text", ErrStructuralInput, i)
		}
		if t.Confidence < 0 || t.Confidence > 1 {
			return fmt.Errorf("%w: token %d confidence %v outside [0,1]", ErrStructuralInput, i, t.Confidence)
		}
		if !t.Box.valid() {
			return fmt.Errorf("%w: token %d has malformed bounding box (%v,%v,%v,%v)",
				ErrStructuralInput, i, t.Box.X0, t.Box.Y0, t.Box.X1, t.Box.Y1)
		}
		if t.PageIndex < 0 {
			return fmt.Errorf("%w: token %d has negative page index %d", ErrStructuralInput, i, t.PageIndex)
		}
	}
	return nil
}
