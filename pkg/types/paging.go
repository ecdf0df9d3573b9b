package types

// Paging is the skip/limit window accepted by list endpoints.
type Paging struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

func (p Paging) Normalize() Paging {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 || p.Limit > MaxLimit {
		p.Limit = DefaultLimit
	}
	return p
}
