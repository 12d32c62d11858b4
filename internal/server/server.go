package server

import (
	"backend-biketrack/internal/catalog"
	"backend-biketrack/internal/config"
	"backend-biketrack/internal/stream"
	"backend-biketrack/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App         *fiber.App
	Cfg         config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Hub         *stream.Hub
	Store       *tracking.Store
	Simulator   *tracking.Simulator
	Broadcaster *tracking.Broadcaster
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)
	store := tracking.NewStore(cfg.PathLimit)

	s := &Server{
		App:         app,
		Cfg:         cfg,
		DB:          db,
		Redis:       redisClient,
		Hub:         hub,
		Store:       store,
		Simulator:   tracking.NewSimulator(store, cfg.SimulationInterval),
		Broadcaster: tracking.NewBroadcaster(store, hub, cfg.BroadcastInterval),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	stream.RegisterRoutes(s.App, s.Hub, tracking.NewProtocol(s.Store, s.Hub))
	catalog.RegisterRoutes(s.App, catalog.NewService(s.DB))
}
