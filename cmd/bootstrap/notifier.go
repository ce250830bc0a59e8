package bootstrap

import (
	"context"

	"confbook/internal/infra/notify"
	"confbook/internal/pkg/config"
	"confbook/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewPublisher,
		fx.Annotate(
			NewDispatcher,
			fx.As(new(shared.NotificationDispatcher)),
		),
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config) (*notify.Publisher, error) {
	publisher, err := notify.NewPublisher(cfg.AMQP)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

func NewDispatcher(lc fx.Lifecycle, publisher *notify.Publisher) *notify.Dispatcher {
	dispatcher := notify.NewDispatcher(publisher)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			dispatcher.Close()
			return nil
		},
	})

	return dispatcher
}
