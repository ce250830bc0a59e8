package bootstrap

import (
	"confbook/internal/infra/roomdir"
	"confbook/internal/infra/weather"
	"confbook/internal/pkg/config"
	"confbook/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var ClientsModule = fx.Module("clients",
	fx.Provide(
		fx.Annotate(
			NewRoomDirectoryClient,
			fx.As(new(shared.RoomDirectory)),
		),
		fx.Annotate(
			NewWeatherClient,
			fx.As(new(shared.WeatherProvider)),
		),
	),
)

func NewRoomDirectoryClient(cfg config.Config) *roomdir.Client {
	return roomdir.NewClient(cfg.RoomDir)
}

func NewWeatherClient(cfg config.Config, rdb *redis.Client) *weather.Client {
	return weather.NewClient(cfg.Weather, rdb)
}
