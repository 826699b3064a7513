package pkg

import (
	"context"
	"fmt"
	"log"

	"OliaRewards/internal/auth"
	"OliaRewards/internal/bootstrap"
	"OliaRewards/internal/collection"
	"OliaRewards/internal/config"
	"OliaRewards/internal/donation"
	"OliaRewards/internal/notification"
	"OliaRewards/internal/pickup"
	"OliaRewards/internal/reward"
	"OliaRewards/internal/stats"
	"OliaRewards/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

var EchoModules = fx.Module("echo",
	fx.Provide(config.LoadConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewGeocodeService),
	fx.Provide(NewEchoServer),

	fx.Provide(auth.NewCitizenRepository),
	fx.Provide(auth.NewSchoolRepository),
	fx.Provide(auth.NewGovernmentRepository),
	fx.Provide(donation.NewDonationRepository),
	fx.Provide(collection.NewCollectionRepository),
	fx.Provide(reward.NewRewardRepository),
	fx.Provide(reward.NewRequestRepository),
	fx.Provide(pickup.NewLocationRepository),
	fx.Provide(pickup.NewPickupRepository),
	fx.Provide(notification.NewNotificationRepository),

	fx.Provide(func(c *auth.CitizenRepository, s *auth.SchoolRepository, g *auth.GovernmentRepository, geo *config.GeocodeService) *auth.AccountService {
		return auth.NewAccountService(c, s, g, geo)
	}),
	fx.Provide(func(d *donation.DonationRepository, c *auth.CitizenRepository, s *auth.SchoolRepository) *donation.DonationService {
		return donation.NewDonationService(d, c, s)
	}),
	fx.Provide(func(r *collection.CollectionRepository, s *auth.SchoolRepository, cfg *config.Config) *collection.CollectionService {
		return collection.NewCollectionService(r, s, cfg.AllowReschedule)
	}),
	fx.Provide(func(catalog *reward.RewardRepository, requests *reward.RequestRepository, s *auth.SchoolRepository) *reward.RewardService {
		return reward.NewRewardService(catalog, requests, s)
	}),
	fx.Provide(func(locations *pickup.LocationRepository, pickups *pickup.PickupRepository, c *auth.CitizenRepository) *pickup.PickupService {
		return pickup.NewPickupService(locations, pickups, c)
	}),
	fx.Provide(func(n *notification.NotificationRepository, c *auth.CitizenRepository, s *auth.SchoolRepository) *notification.NotificationService {
		return notification.NewNotificationService(n, c, s)
	}),
	fx.Provide(func(d *donation.DonationRepository, s *auth.SchoolRepository, c *auth.CitizenRepository) *stats.StatsService {
		return stats.NewStatsService(d, s, c)
	}),

	fx.Provide(auth.NewAccountHandler),
	fx.Provide(donation.NewDonationHandler),
	fx.Provide(collection.NewCollectionHandler),
	fx.Provide(reward.NewRewardHandler),
	fx.Provide(pickup.NewPickupHandler),
	fx.Provide(notification.NewNotificationHandler),
	fx.Provide(stats.NewStatsHandler),

	fx.Invoke(bootstrap.Seed),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	middleware.SetupMiddleware(e, cfg)
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("Server running on http://localhost" + addr)
			go func() {
				if err := e.Start(addr); err != nil {
					log.Println("server stopped:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

type Handlers struct {
	fx.In

	Accounts      *auth.AccountHandler
	Donations     *donation.DonationHandler
	Collections   *collection.CollectionHandler
	Rewards       *reward.RewardHandler
	Pickups       *pickup.PickupHandler
	Notifications *notification.NotificationHandler
	Stats         *stats.StatsHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	e.POST("/api/auth/register/user", h.Accounts.RegisterCitizen)
	e.POST("/api/auth/register/school", h.Accounts.RegisterSchool)
	e.POST("/api/auth/login", h.Accounts.Login)
	e.GET("/api/schools/public", h.Accounts.PublicSchools)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware)
	protected.Use(middleware.CasbinMiddleware)

	protected.GET("/auth/me", h.Accounts.Me)

	protected.GET("/users/profile", h.Accounts.CitizenProfile)
	protected.PUT("/users/profile", h.Accounts.UpdateCitizenProfile)
	protected.GET("/users/stats", h.Accounts.CitizenStats)

	protected.GET("/school/profile", h.Accounts.SchoolProfile)
	protected.PUT("/school/profile", h.Accounts.UpdateSchoolProfile)
	protected.GET("/school/stats", h.Accounts.SchoolStats)
	protected.GET("/school/ranking", h.Accounts.SchoolRanking)

	protected.POST("/donations", h.Donations.Create)
	protected.GET("/donations/user", h.Donations.ListMine)
	protected.GET("/donations/school", h.Donations.ListForSchool)
	protected.PATCH("/donations/:id/confirm", h.Donations.Confirm)

	protected.POST("/collections", h.Collections.Request)
	protected.GET("/collections/school", h.Collections.ListMine)
	protected.GET("/collections/all", h.Collections.ListAll)
	protected.PATCH("/collections/:id/schedule", h.Collections.Schedule)
	protected.PATCH("/collections/:id/complete", h.Collections.Complete)

	protected.GET("/rewards", h.Rewards.ListCatalog)
	protected.POST("/rewards/request", h.Rewards.Request)
	protected.GET("/rewards/school/requests", h.Rewards.ListMine)
	protected.GET("/rewards/requests", h.Rewards.ListAll)
	protected.PATCH("/rewards/requests/:id/approve", h.Rewards.Approve)
	protected.PATCH("/rewards/requests/:id/deny", h.Rewards.Deny)

	protected.GET("/pickups/locations", h.Pickups.ListLocations)
	protected.POST("/pickups/request", h.Pickups.Request)
	protected.GET("/pickups/user", h.Pickups.ListMine)
	protected.GET("/pickups/all", h.Pickups.ListAll)

	protected.GET("/notifications", h.Notifications.List)
	protected.PATCH("/notifications/:id/read", h.Notifications.MarkRead)
	protected.POST("/notifications", h.Notifications.Create)

	protected.GET("/government/stats", h.Stats.Global)
	protected.GET("/government/schools/top", h.Stats.TopSchools)
	protected.GET("/government/schools", h.Stats.ListSchools)
}
