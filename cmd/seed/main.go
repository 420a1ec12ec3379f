package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"booknest/config"
	"booknest/internal/auth"
	"booknest/internal/cache"
	"booknest/internal/database"
	"booknest/internal/model"
	"booknest/internal/queue"
	"booknest/internal/repository"
	"booknest/internal/service"
	"booknest/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type seedUser struct {
	email, password, firstName, lastName string
	role                                 model.Role
}

type seedEvent struct {
	title, description, location string
	daysFromNow                  int
	hour                         int
	maxParticipants              int
	publish                      bool
}

var users = []seedUser{
	{"admin@booknest.com", "Admin123!", "Ahmed", "Administrateur", model.RoleAdmin},
	{"mohamed@example.com", "User123!", "Mohamed", "Alami", model.RoleParticipant},
	{"fatima@example.com", "User123!", "Fatima", "Zahra", model.RoleParticipant},
	{"youssef@example.com", "User123!", "Youssef", "Bennani", model.RoleParticipant},
}

var events = []seedEvent{
	{"Formation TypeScript Avancé", "Formation complète sur TypeScript avec exemples pratiques et projets réels", "Casablanca Tech Hub", 30, 10, 30, true},
	{"Atelier NestJS & MongoDB", "Apprendre à créer des APIs robustes avec NestJS et MongoDB", "Rabat Innovation Center", 35, 14, 25, true},
	{"Conférence DevOps & CI/CD", "Les meilleures pratiques DevOps avec Docker, Kubernetes et GitHub Actions", "Marrakech Tech Conference", 50, 9, 100, true},
	{"Workshop React & Next.js", "Créer des applications web modernes avec React et Next.js", "Tanger Digital Hub", 40, 15, 40, true},
	{"Formation Docker & Kubernetes", "Maîtriser la containerisation et l'orchestration", "Fès Tech Park", 85, 10, 35, false},
}

// reservations: {participant index, event index, seats}
var reservations = [][3]int{
	{1, 0, 2},
	{2, 1, 1},
	{3, 2, 3},
	{1, 3, 1},
	{2, 0, 5},
}

func main() {
	clearOnly := flag.Bool("clear", false, "only delete all users, events and reservations")
	reset := flag.Bool("reset", false, "delete existing data before seeding")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.SetLevel(cfg.Log.Level)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	if *clearOnly || *reset {
		if err := clearDatabase(ctx, pool); err != nil {
			log.Fatalf("Failed to clear database: %v", err)
		}
		logger.L.Info("database cleared")
		if *clearOnly {
			return
		}
	}

	if err := seed(ctx, pool, cfg); err != nil {
		log.Fatalf("Failed to seed database: %v (run with -reset to start from an empty database)", err)
	}
}

func clearDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE reservations, events, users CASCADE")
	return err
}

func seed(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) error {
	log := logger.WithComponent("seed")

	tx := repository.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	authService := service.NewAuthService(userRepo, auth.NewJWTIssuer(cfg.JWT))
	eventService := service.NewEventService(tx, eventRepo, cache.NoopEventCache{}, nil)
	// 種子資料不寄信，通知放進不會被消費的記憶體隊列
	reservationService := service.NewReservationService(
		tx, reservationRepo, eventRepo, cache.NoopEventCache{},
		queue.NewMemoryNotificationQueue(len(reservations), nil), true, nil,
	)

	userIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		role := u.role
		created, err := authService.Register(ctx, model.RegisterInput{
			Email: u.email, Password: u.password, FirstName: u.firstName, LastName: u.lastName, Role: &role,
		})
		if err != nil {
			return fmt.Errorf("create user %s: %w", u.email, err)
		}
		userIDs = append(userIDs, created.ID)
		log.Info("user created", zap.String("email", created.Email), zap.String("role", string(created.Role)))
	}
	adminID := userIDs[0]

	today := time.Now().UTC().Truncate(24 * time.Hour)
	eventIDs := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		status := model.EventStatusDraft
		if e.publish {
			status = model.EventStatusPublished
		}
		created, err := eventService.Create(ctx, model.CreateEventParams{
			Title:           e.title,
			Description:     e.description,
			Date:            today.AddDate(0, 0, e.daysFromNow).Add(time.Duration(e.hour) * time.Hour),
			Location:        e.location,
			MaxParticipants: e.maxParticipants,
			Status:          &status,
		}, adminID)
		if err != nil {
			return fmt.Errorf("create event %q: %w", e.title, err)
		}
		eventIDs = append(eventIDs, created.ID)
		log.Info("event created", zap.String("title", created.Title), zap.String("status", string(created.Status)))
	}

	for _, r := range reservations {
		seats := r[2]
		created, err := reservationService.Create(ctx, model.CreateReservationParams{
			EventID:       eventIDs[r[1]],
			NumberOfSeats: &seats,
		}, userIDs[r[0]])
		if err != nil {
			return fmt.Errorf("create reservation for %s: %w", users[r[0]].email, err)
		}
		log.Info("reservation created",
			zap.String("user", users[r[0]].email),
			zap.String("event", events[r[1]].title),
			zap.Int("seats", created.NumberOfSeats),
			zap.String("status", string(created.Status)),
		)
	}

	log.Info("database seeding completed",
		zap.Int("users", len(users)),
		zap.Int("events", len(events)),
		zap.Int("reservations", len(reservations)),
	)
	return nil
}
