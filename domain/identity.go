package domain

// UserID shares the flexible decoding of RoomID: the auth layer hands out
// numeric ids, clients send them back either way.
type UserID string

func (u *UserID) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return err
	}
	*u = UserID(s)
	return nil
}

// Identity is the snapshot of a user attached to a membership at join time.
// It is immutable for the life of the membership: a mid-session rename is
// not propagated to rooms the user already sits in.
type Identity struct {
	ID   UserID `json:"id" validate:"required"`
	Name string `json:"name"`
}
