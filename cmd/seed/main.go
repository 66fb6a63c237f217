package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/crucial707/job-board/internal/config"
	"github.com/crucial707/job-board/internal/db"
	"github.com/crucial707/job-board/internal/models"
	"github.com/crucial707/job-board/internal/repo"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	username string
	password string
	nickname string
	phone    string
	email    string
}

type seedPost struct {
	owner      int // index into seed users
	title      string
	location   string
	pay        int
	hourlyWage int
	daysAhead  int
	startTime  string
	endTime    string
	totalHours int
	content    string
}

var seedUsers = []seedUser{
	{"seoulnight", "password1", "nightowl", "010-9423-1284", "seoulnight@example.com"},
	{"catlover92", "password2", "catherder", "010-5832-7712", "catlover92@example.com"},
	{"mountain_hiker", "password3", "trailghost", "010-1124-5528", "hiker@example.com"},
	{"latteholic", "password4", "lattefiend", "010-4459-8893", "latteholic@example.com"},
	{"retro_gamer", "password5", "pixelpusher", "010-9921-4706", "retro_gamer@example.com"},
}

// The hours/wage spread covers every filter bucket combination.
var seedPosts = []seedPost{
	{0, "Cafe opening shift", "Mapo-gu, Seoul", 76800, 12800, 2, "07:00", "13:00", 6, "Morning prep and counter work."},
	{1, "Warehouse packing", "Gimhae, Gyeongnam", 64000, 8000, 3, "09:00", "17:00", 8, "Box packing, standing work."},
	{2, "Event setup crew", "Haeundae, Busan", 90000, 9000, 5, "08:00", "18:00", 10, "Stage and booth setup for a weekend fair."},
	{3, "Flyer distribution", "Jongno-gu, Seoul", 51600, 8600, 1, "10:00", "16:00", 6, "Hand out flyers near the station."},
	{4, "Quick moving help", "Suwon, Gyeonggi", 52000, 13000, 4, "13:00", "17:00", 4, "Carrying boxes to a truck, heavy lifting."},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	database, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		slog.Error("seed: connect", "err", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Run(cfg.DatabaseURL()); err != nil {
		slog.Error("seed: migrate", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	users := repo.NewUserRepo(database)
	posts := repo.NewJobPostRepo(database)

	userIDs := make([]int, 0, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("seed: hash password", "err", err)
			os.Exit(1)
		}
		u, err := users.Create(ctx, su.username, string(hash), su.nickname, su.phone, su.email, nil)
		if err == repo.ErrConflict {
			existing, getErr := users.GetByUsername(ctx, su.username)
			if getErr != nil {
				slog.Error("seed: fetch existing user", "username", su.username, "err", getErr)
				os.Exit(1)
			}
			slog.Info("seed: user exists, skipping", "username", su.username)
			userIDs = append(userIDs, existing.ID)
			continue
		}
		if err != nil {
			slog.Error("seed: create user", "username", su.username, "err", err)
			os.Exit(1)
		}
		slog.Info("seed: created user", "id", u.ID, "username", u.Username)
		userIDs = append(userIDs, u.ID)
	}

	today := time.Now().Truncate(24 * time.Hour)
	for _, sp := range seedPosts {
		id, err := posts.Create(ctx, models.JobPost{
			Title:      sp.title,
			Location:   sp.location,
			Pay:        sp.pay,
			HourlyWage: sp.hourlyWage,
			Date:       today.AddDate(0, 0, sp.daysAhead),
			StartTime:  sp.startTime,
			EndTime:    sp.endTime,
			TotalHours: sp.totalHours,
			Content:    sp.content,
			UserID:     userIDs[sp.owner],
		})
		if err != nil {
			slog.Error("seed: create job post", "title", sp.title, "err", err)
			os.Exit(1)
		}
		slog.Info("seed: created job post", "id", id, "title", sp.title)
	}
}
