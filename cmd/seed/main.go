// Command main runs the database seeder for Circles.
package main

import (
	"flag"
	"log"

	"circles/internal/config"
	"circles/internal/database"
	"circles/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	comments := flag.Int("comments", 3, "Comments per post")
	reacts := flag.Int("reacts", 5, "Reacts per post")
	friendRatio := flag.Float64("friends", 0.1, "Probability that two users are friends")
	pendingRatio := flag.Float64("pending", 0.05, "Probability of a pending request between non-friends")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing it")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	f := seed.NewFactory(db, seed.Options{
		NumUsers:        *numUsers,
		NumPosts:        *numPosts,
		CommentsPerPost: *comments,
		ReactsPerPost:   *reacts,
		FriendRatio:     *friendRatio,
		PendingRatio:    *pendingRatio,
		DryRun:          *dryRun,
	})

	if *shouldClean {
		if err := f.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := f.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
