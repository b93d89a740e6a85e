package sport

type Sport struct {
	ID          string
	Name        string
	Code        string
	Description string
	Icon        string
	IsActive    bool
}
