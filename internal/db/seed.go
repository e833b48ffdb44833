package db

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/tutormatch/internal/logger"
)

var (
	seedSkills = []string{"Python", "Guitar", "Calculus", "Spanish", "Go", "Piano", "Chemistry", "Drawing"}
	seedLevels = []string{"beginner", "intermediate", "advanced"}
)

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears every table, children first.
//  2. Creates 10 teachers (ids 1-10) and 10 students (ids 11-20), password "password".
//  3. Gives each user 2-3 tags of the kind matching their role.
//  4. Each student swipes on ~6 teachers (~70% likes); every 3rd pair gets a
//     reciprocal like and therefore a match.
//  5. Each match gets a short chat, and about half get a rating from the student.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(ctx context.Context, db *gorm.DB) ([]User, error) {
	r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	db = db.WithContext(ctx)

	if err := clearTables(db); err != nil {
		return nil, err
	}
	logger.Info("cleared existing data")

	users, err := seedUsers(ctx, db, r)
	if err != nil {
		return nil, err
	}
	logger.Info("seeded users", "count", len(users))

	matches, err := seedSwipes(db, r)
	if err != nil {
		return nil, err
	}
	logger.Info("seeded swipes", "matches", len(matches))

	if err := seedConversations(db, r, matches); err != nil {
		return nil, err
	}
	return users, nil
}

func clearTables(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", models[i], err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"messages", "ratings", "matches", "tags", "users"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence")
	}
	return nil
}

// seedUsers hashes passwords concurrently; bcrypt dominates seeding time.
func seedUsers(ctx context.Context, db *gorm.DB, r *rand.Rand) ([]User, error) {
	users := make([]User, 20)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range users {
		g.Go(func() error {
			hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			users[i].PasswordHash = string(hash)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var tags []Tag
	for i := range users {
		id := uint64(i + 1)
		role := RoleTeacher
		if id > 10 {
			role = RoleStudent
		}
		users[i].ID = id
		users[i].Name = fmt.Sprintf("%s%d", role, id)
		users[i].Email = fmt.Sprintf("user%d@example.com", id)
		users[i].Role = role
		users[i].Bio = fmt.Sprintf("Demo %s", role)

		for _, j := range r.Perm(len(seedSkills))[:2+r.IntN(2)] {
			tag := Tag{UserID: id, Kind: role.TagKind(), Name: seedSkills[j], Level: seedLevels[r.IntN(len(seedLevels))]}
			if role == RoleStudent {
				tag.DesiredLevel = seedLevels[len(seedLevels)-1]
			}
			tags = append(tags, tag)
		}
	}

	if err := db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	if err := db.Create(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to seed tags: %w", err)
	}
	return users, nil
}

func seedSwipes(db *gorm.DB, r *rand.Rand) ([]Match, error) {
	var matches []Match
	counter := 0
	for student := uint64(11); student <= 20; student++ {
		for _, j := range r.Perm(10)[:6] {
			teacher := uint64(j + 1)

			// like probability 70%, mutual every 3rd pair
			liked := r.IntN(100) < 70
			mutual := counter%3 == 0
			counter++

			decision := DecisionSkip
			if liked || mutual {
				decision = DecisionLike
			}
			swipes := []Swipe{{FromUserID: student, ToUserID: teacher, Decision: decision}}
			if mutual {
				swipes = append(swipes, Swipe{FromUserID: teacher, ToUserID: student, Decision: DecisionLike})
			}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&swipes).Error; err != nil {
				return nil, fmt.Errorf("failed to seed swipe: %w", err)
			}

			if mutual {
				// teacher ids are always below student ids
				matches = append(matches, Match{UserAID: teacher, UserBID: student, Active: true})
			}
		}
	}
	if len(matches) > 0 {
		if err := db.Create(&matches).Error; err != nil {
			return nil, fmt.Errorf("failed to seed matches: %w", err)
		}
	}
	return matches, nil
}

func seedConversations(db *gorm.DB, r *rand.Rand, matches []Match) error {
	now := time.Now().UTC()
	for _, m := range matches {
		msgs := []Message{
			{MatchID: m.ID, SenderID: m.UserBID, Body: "Hi! Are you available this week?", SentAt: now.Add(-2 * time.Hour), IsRead: true},
			{MatchID: m.ID, SenderID: m.UserAID, Body: "Sure, how about Thursday?", SentAt: now.Add(-time.Hour)},
		}
		if err := db.Create(&msgs).Error; err != nil {
			return fmt.Errorf("failed to seed messages: %w", err)
		}

		if r.IntN(2) == 0 {
			continue
		}
		rating := Rating{MatchID: m.ID, RaterID: m.UserBID, RatedID: m.UserAID, Score: 3 + r.IntN(3), Comment: "Great session"}
		if err := db.Create(&rating).Error; err != nil {
			return fmt.Errorf("failed to seed rating: %w", err)
		}
	}
	return nil
}
