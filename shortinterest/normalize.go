package shortinterest

// Normalize turns a raw short interest candidate into a fraction in [0, 1].
// Values in (1, 100] are read as percentages. Missing, non-numeric, negative
// and out of range values yield nil.
func Normalize(v interface{}) *float64 {
	if v == nil {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	switch {
	case f < 0:
		return nil
	case f > 100:
		return nil
	case f > 1:
		f = f / 100
	}
	return &f
}
