package capability

// VotableView exposes voting state for models that can be voted on.
type VotableView struct {
	likes *bool
	score int
	ups   int
	downs int
}

var _ View = VotableView{}

// NewVotableView creates a votable view. likes is nil when the current user has not voted.
func NewVotableView(score, ups, downs int, likes *bool) (VotableView, error) {
	if ups < 0 || downs < 0 {
		return VotableView{}, &InvalidViewError{Tag: Votable, Reason: "vote totals cannot be negative"}
	}
	v := VotableView{score: score, ups: ups, downs: downs}
	if likes != nil {
		l := *likes
		v.likes = &l
	}
	return v, nil
}

// Tag returns Votable.
func (v VotableView) Tag() Tag {
	return Votable
}

// Score returns the net score.
func (v VotableView) Score() int {
	return v.score
}

// Ups returns the upvote total.
func (v VotableView) Ups() int {
	return v.ups
}

// Downs returns the downvote total.
func (v VotableView) Downs() int {
	return v.downs
}

// Likes returns the current user's vote: true (up), false (down) or nil (none).
// The returned pointer is a copy.
func (v VotableView) Likes() *bool {
	if v.likes == nil {
		return nil
	}
	l := *v.likes
	return &l
}

// Equal implements View.
func (v VotableView) Equal(other View) bool {
	o, ok := other.(VotableView)
	if !ok {
		return false
	}
	if (v.likes == nil) != (o.likes == nil) {
		return false
	}
	if v.likes != nil && *v.likes != *o.likes {
		return false
	}
	return v.score == o.score && v.ups == o.ups && v.downs == o.downs
}
