package media

// Lightbox tracks the viewer's position within the image subset of one
// event. The index clamps at both ends rather than wrapping: Previous on
// the first image and Next on the last are no-ops.
type Lightbox struct {
	Index int
	Size  int
}

// NewLightbox opens a lightbox at the given index, clamped into [0, size).
func NewLightbox(index, size int) Lightbox {
	if size < 0 {
		size = 0
	}
	if index < 0 {
		index = 0
	}
	if size > 0 && index > size-1 {
		index = size - 1
	}
	return Lightbox{Index: index, Size: size}
}

// HasPrevious reports whether a previous image exists.
func (l Lightbox) HasPrevious() bool {
	return l.Index > 0
}

// HasNext reports whether a next image exists.
func (l Lightbox) HasNext() bool {
	return l.Index < l.Size-1
}

// Previous returns the lightbox moved one image back, clamped at the first.
// INVARIANT: 0 <= Index < Size for non-empty lightboxes
func (l Lightbox) Previous() Lightbox {
	if !l.HasPrevious() {
		return l
	}
	l.Index--
	return l
}

// Next returns the lightbox moved one image forward, clamped at the last.
// INVARIANT: 0 <= Index < Size for non-empty lightboxes
func (l Lightbox) Next() Lightbox {
	if !l.HasNext() {
		return l
	}
	l.Index++
	return l
}
