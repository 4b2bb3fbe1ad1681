package components

import (
	"deskbook/internal/domain/reservation"
	"deskbook/internal/domain/schedule"
	"deskbook/internal/pkg/clock"
	"deskbook/internal/pkg/config"
	"deskbook/internal/usecase"
	"deskbook/internal/usecase/commands"
	"deskbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewOperatingWindow,
	NewBookingPolicy,
	reservation.NewFactory,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewResourceQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewOperatingWindow(cfg config.Config) (schedule.OperatingWindow, error) {
	return schedule.NewOperatingWindow(cfg.Booking.OpenHour, cfg.Booking.CloseHour, cfg.Booking.SlotMinutes)
}

func NewBookingPolicy(cfg config.Config) reservation.BookingPolicy {
	return reservation.BookingPolicy{MaxAdvanceDays: cfg.Booking.MaxAdvanceDays}
}
