package main

import (
	"campusdesk/backend/internal/auth"
	"campusdesk/backend/internal/complaint"
	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]
  resolve <complaint_id> [reply]   mark a pending complaint Resolved
  reject <complaint_id> [reply]    mark a pending complaint Rejected
  stats                            print complaint counters
  promote <user_id> <email>        grant the admin role
  token <user_id> <email> [role]   print a signed access token`

// operator is the identity recorded for transitions made from the CLI.
var operator = &models.Principal{UserID: "admin-cli", Name: "admin-cli", Role: models.RoleAdmin}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	command := os.Args[1]
	switch command {
	case "token":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin token <user_id> <email> [role]")
			os.Exit(1)
		}
		p := models.Principal{UserID: os.Args[2], Email: os.Args[3]}
		if len(os.Args) > 4 {
			p.Role = os.Args[4]
		}
		token, err := auth.IssueToken([]byte(cfg.JWTSecret), p, cfg.TokenTTL)
		if err != nil {
			log.Fatalf("Error issuing token: %v", err)
		}
		fmt.Println(token)
		return
	}

	s := openStorage(cfg)

	switch command {
	case "resolve", "reject":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: admin %s <complaint_id> [reply]\n", command)
			os.Exit(1)
		}
		status := models.StatusResolved
		if command == "reject" {
			status = models.StatusRejected
		}
		reply := strings.Join(os.Args[3:], " ")

		svc := complaint.NewService(s, nil, nil, nil)
		c, err := svc.Transition(ctx, operator, os.Args[2], status, reply)
		if err != nil {
			log.Fatalf("Error updating complaint: %v", err)
		}
		fmt.Printf("Complaint %s is now %s.\n", c.ID, c.Status)
	case "stats":
		svc := complaint.NewService(s, nil, nil, nil)
		st, err := svc.Stats(ctx, operator)
		if err != nil {
			log.Fatalf("Error loading stats: %v", err)
		}
		out, _ := json.MarshalIndent(st, "", "  ")
		fmt.Println(string(out))
	case "promote":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin promote <user_id> <email>")
			os.Exit(1)
		}
		if err := promoteUser(ctx, s, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now an admin.\n", os.Args[2])
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func openStorage(cfg *config.Config) *storage.Service {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Redis is optional here; with it, live observers see CLI transitions.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	}
	return storage.NewStorageService(db, rdb)
}

func promoteUser(ctx context.Context, s storage.Storage, userID, email string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		if !storage.IsNotFound(err) {
			return err
		}
		user = &models.User{ID: userID, Email: email}
	}
	user.Role = models.RoleAdmin
	return s.SaveUser(ctx, user)
}
