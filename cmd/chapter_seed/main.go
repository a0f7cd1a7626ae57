package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"greekpay/internal/config"
	apperrors "greekpay/internal/errors"
	"greekpay/internal/models"
	"greekpay/internal/repositories"
	"greekpay/internal/utils"
	"greekpay/internal/validation"
)

func main() {
	config.LoadEnv()

	chapterName := os.Getenv("CHAPTER_NAME")
	school := os.Getenv("CHAPTER_SCHOOL")
	stripeAccount := os.Getenv("CHAPTER_STRIPE_ACCOUNT_ID")
	treasurerEmail := strings.ToLower(strings.TrimSpace(os.Getenv("TREASURER_EMAIL")))
	treasurerName := os.Getenv("TREASURER_NAME")

	v := validation.New()
	v.Required("CHAPTER_NAME", chapterName)
	v.MaxLength("CHAPTER_NAME", chapterName, validation.MaxNameLength)
	v.Required("TREASURER_NAME", treasurerName)
	v.Email("TREASURER_EMAIL", treasurerEmail)
	if !v.Valid() {
		for field, msg := range v.Errors {
			log.Printf("%s %s", field, msg)
		}
		log.Fatal("CHAPTER_NAME, TREASURER_NAME and TREASURER_EMAIL must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repositories.Close()

	ctx := context.Background()
	chapters := repositories.NewChapterRepository(repositories.DB)
	members := repositories.NewMemberRepository(repositories.DB)

	treasurer, err := members.GetByEmail(ctx, treasurerEmail)
	switch {
	case err == nil:
		log.Printf("Treasurer %s already exists for chapter %d", treasurer.Email, treasurer.ChapterID)
	case errors.Is(err, apperrors.ErrMemberNotFound):
		chapter := &models.Chapter{
			Name:            chapterName,
			School:          school,
			StripeAccountID: stripeAccount,
			PayoutsEnabled:  stripeAccount != "",
			Status:          "active",
		}
		if err := chapters.Create(ctx, chapter); err != nil {
			log.Fatal("Failed to create chapter:", err)
		}

		treasurer = &models.Member{
			ChapterID: chapter.ID,
			Email:     treasurerEmail,
			Name:      treasurerName,
			Role:      models.RoleTreasurer,
			Status:    "active",
		}
		if err := members.Create(ctx, treasurer); err != nil {
			log.Fatal("Failed to create treasurer:", err)
		}
		log.Printf("✅ Chapter %q (id %d) created with treasurer %s", chapter.Name, chapter.ID, treasurer.Email)
		if stripeAccount == "" {
			log.Println("⚠️ CHAPTER_STRIPE_ACCOUNT_ID not set: card and ACH payments stay disabled until onboarding completes")
		}
	default:
		log.Fatal("Failed to look up treasurer:", err)
	}

	// Local development only
	if config.GetEnv("SEED_PRINT_TOKEN", "false") == "true" && !config.IsProduction() {
		secret := config.GetEnv("JWT_SECRET", "")
		if secret == "" {
			log.Fatal("JWT_SECRET must be set to print a token")
		}
		token, err := utils.GenerateToken(treasurer, secret, 24*time.Hour)
		if err != nil {
			log.Fatal("Failed to generate token:", err)
		}
		fmt.Println(token)
	}
}
