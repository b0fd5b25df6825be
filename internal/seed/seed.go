// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"waypost/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	PostsPerUser int
	ShouldClean  bool
}

var travelTags = []string{
	"backpacking", "foodie", "hiking", "roadtrip", "beaches", "citybreak",
	"wildlife", "photography", "budget", "luxury", "solo", "vanlife",
	"camping", "diving", "skiing", "festivals", "architecture", "streetfood",
}

// Seed populates the database with sample travelers and posts.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("Seeding %d users with %d posts each...", opts.NumUsers, opts.PostsPerUser)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("Warning: could not clear existing data: %v", err)
		}
	}

	// One shared hash keeps seeding fast; every seeded account logs in
	// with "password123".
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Username: gofakeit.Username(),
			Password: string(hash),
			Role:     models.RoleUser,
			Bio:      gofakeit.Sentence(12),
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}

	posts := make([]*models.Post, 0, opts.NumUsers*opts.PostsPerUser)
	for _, user := range users {
		for j := 0; j < opts.PostsPerUser; j++ {
			city := gofakeit.City()
			country := gofakeit.Country()
			post := &models.Post{
				Title:    fmt.Sprintf("%s days in %s", gofakeit.AdjectiveDescriptive(), city),
				Content:  gofakeit.Paragraph(1, 3, 8, "\n"),
				Location: fmt.Sprintf("%s, %s", city, country),
				Tags:     pickTags(r),
				UserID:   user.ID,
			}
			post.CreatedAt = time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour)
			posts = append(posts, post)
		}
	}
	if len(posts) > 0 {
		if err := db.CreateInBatches(&posts, 100).Error; err != nil {
			return fmt.Errorf("creating posts: %w", err)
		}
	}

	likes := seedLikes(db, r, users, posts)

	log.Printf("Seeded %d users, %d posts, %d likes", len(users), len(posts), likes)
	return nil
}

func pickTags(r *rand.Rand) []string {
	n := 1 + r.Intn(4)
	picked := make([]string, 0, n)
	for _, idx := range r.Perm(len(travelTags))[:n] {
		picked = append(picked, travelTags[idx])
	}
	return picked
}

// seedLikes sprinkles likes across posts. Authors never like their own posts,
// matching the API rule.
func seedLikes(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) int {
	count := 0
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID || r.Intn(5) != 0 {
				continue
			}
			like := &models.Like{UserID: user.ID, PostID: post.ID}
			if err := db.Create(like).Error; err != nil {
				continue
			}
			count++
		}
	}
	return count
}

func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Like{}, &models.Post{}, &models.User{}} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
