package client

type CreatedEvent struct {
	Result Client
}

type UpdatedEvent struct {
	Result Client
}

type DeletedEvent struct {
	Result Client
}
