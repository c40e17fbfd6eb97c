package policy

type CreatedEvent struct {
	Result Policy
}

type UpdatedEvent struct {
	Result Policy
}

type DeletedEvent struct {
	Result Policy
}
