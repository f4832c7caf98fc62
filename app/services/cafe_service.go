package services

import (
	"context"

	"github.com/shashiranjanraj/cafehub/app/errs"
	"github.com/shashiranjanraj/cafehub/app/models"
	"github.com/shashiranjanraj/cafehub/pkg/event"
	"github.com/shashiranjanraj/cafehub/pkg/guard"
	"github.com/shashiranjanraj/cafehub/pkg/logger"
	"github.com/shashiranjanraj/cafehub/pkg/session"
	"github.com/shashiranjanraj/cafehub/pkg/validate"
)

// CafeStore is the persistence the registry needs.
type CafeStore interface {
	FindByName(ctx context.Context, name string) (*models.Cafe, error)
	All(ctx context.Context) ([]models.Cafe, error)
	FindByID(ctx context.Context, id uint) (*models.Cafe, error)
	Create(ctx context.Context, cafe *models.Cafe) error
	Delete(ctx context.Context, id uint) error
}

// CafeInput is a normalised add-cafe request.
type CafeInput struct {
	Name         string `json:"name"         validate:"required,max=255"`
	MapURL       string `json:"map_url"      validate:"required,url,max=2048"`
	ImgURL       string `json:"img_url"      validate:"required,url,max=2048"`
	Location     string `json:"location"     validate:"required,max=255"`
	HasSockets   bool   `json:"has_sockets"`
	HasToilet    bool   `json:"has_toilet"`
	HasWifi      bool   `json:"has_wifi"`
	CanTakeCalls bool   `json:"can_take_calls"`
	Seats        string `json:"seats"        validate:"required,max=100"`
	CoffeePrice  string `json:"coffee_price" validate:"required,max=100"`
}

// CafeService is the cafe registry. Every guarded call takes the acting
// principal explicitly.
type CafeService struct {
	cafes  CafeStore
	admin  guard.Policy
	authed guard.Policy
	events *event.Bus
}

func NewCafeService(cafes CafeStore, users guard.AdminLookup) *CafeService {
	return &CafeService{
		cafes:  cafes,
		admin:  guard.RequireAdmin(users),
		authed: guard.RequireAuthenticated(),
	}
}

// WithEvents publishes registry changes on bus.
func (s *CafeService) WithEvents(bus *event.Bus) *CafeService {
	s.events = bus
	return s
}

// AddCafe stores a new listing. Admin only; the name must be unused.
func (s *CafeService) AddCafe(ctx context.Context, in CafeInput, actor session.Principal) (*models.Cafe, error) {
	var cafe *models.Cafe
	err := guard.Authorize(ctx, actor, s.admin, func() error {
		if err := errs.Invalid(validate.Struct(in)); err != nil {
			return err
		}

		existing, err := s.cafes.FindByName(ctx, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.ErrDuplicateName
		}

		cafe = &models.Cafe{
			Name:         in.Name,
			MapURL:       in.MapURL,
			ImgURL:       in.ImgURL,
			Location:     in.Location,
			HasSockets:   in.HasSockets,
			HasToilet:    in.HasToilet,
			HasWifi:      in.HasWifi,
			CanTakeCalls: in.CanTakeCalls,
			Seats:        in.Seats,
			CoffeePrice:  in.CoffeePrice,
		}
		return s.cafes.Create(ctx, cafe)
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("cafe: added", "cafe_id", cafe.ID, "user_id", actor.UserID)
	s.events.Fire(ctx, event.CafeAdded, event.Payload{ActorID: actor.UserID, CafeID: cafe.ID, CafeName: cafe.Name})
	return cafe, nil
}

// ListCafes is open to everyone.
func (s *CafeService) ListCafes(ctx context.Context) ([]models.Cafe, error) {
	return s.cafes.All(ctx)
}

// GetCafeDetail returns one listing to a signed-in principal.
func (s *CafeService) GetCafeDetail(ctx context.Context, id uint, actor session.Principal) (*models.Cafe, error) {
	var cafe *models.Cafe
	err := guard.Authorize(ctx, actor, s.authed, func() error {
		var err error
		cafe, err = s.cafes.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cafe, nil
}

// RemoveCafe deletes a listing. Admin only; errs.ErrNotFound when absent.
func (s *CafeService) RemoveCafe(ctx context.Context, id uint, actor session.Principal) error {
	err := guard.Authorize(ctx, actor, s.admin, func() error {
		return s.cafes.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("cafe: removed", "cafe_id", id, "user_id", actor.UserID)
	s.events.Fire(ctx, event.CafeRemoved, event.Payload{ActorID: actor.UserID, CafeID: id})
	return nil
}
