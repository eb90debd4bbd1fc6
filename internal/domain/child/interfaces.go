package child

import "context"

// Repository provides persistence for caregivers and children.
type Repository interface {
	CreateCaregiver(ctx context.Context, c *Caregiver) error
	GetCaregiverByChatID(ctx context.Context, chatID string) (*Caregiver, error)
	CreateChild(ctx context.Context, ch *Child) error
	GetChild(ctx context.Context, id string) (*Child, error)
	ListByCaregiver(ctx context.Context, caregiverID string) ([]Child, error)
}
