package registration

import "maps"

// FieldErrors holds per-field error annotations. FieldGeneral carries the
// form-level message.
type FieldErrors map[Field]string

// Get returns the annotation for f.
func (e FieldErrors) Get(f Field) string {
	return e[f]
}

// Has reports whether f carries an annotation.
func (e FieldErrors) Has(f Field) bool {
	return e[f] != ""
}

// With returns a copy with f annotated.
func (e FieldErrors) With(f Field, msg string) FieldErrors {
	out := e.Clone()
	if out == nil {
		out = make(FieldErrors, 1)
	}
	out[f] = msg
	return out
}

// Without returns a copy with f's annotation removed.
func (e FieldErrors) Without(f Field) FieldErrors {
	if !e.Has(f) {
		return e
	}
	out := e.Clone()
	delete(out, f)
	return out
}

// Clone copies the annotations.
func (e FieldErrors) Clone() FieldErrors {
	if e == nil {
		return nil
	}
	return maps.Clone(e)
}
