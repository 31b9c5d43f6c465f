// Command main runs the database seeder for vibeshare.
package main

import (
	"context"
	"flag"
	"log"

	"vibeshare/internal/config"
	"vibeshare/internal/database"
	"vibeshare/internal/seed"
)

func main() {
	numUsers := flag.Int("users", seed.DefaultPlan.Users, "Number of users to create")
	numPosts := flag.Int("posts", seed.DefaultPlan.Posts, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a named seeder preset (e.g. demo, populated)")
	presetFile := flag.String("preset-file", "", "YAML file with extra presets")
	flag.Parse()

	log.Println("Database Seeder")
	if *preset != "" {
		log.Printf("Applying preset: %s (ignoring size flags)", *preset)
	} else {
		log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DBDriver == "sqlite" && cfg.SQLiteDSN == "" {
		log.Println("WARNING: the default sqlite store is in-memory; seeded data disappears when this command exits")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var res seed.Result
	if *preset != "" {
		presets, err := seed.LoadPresets(*presetFile)
		if err != nil {
			log.Fatalf("Loading presets failed: %v", err)
		}
		res, err = s.ApplyPreset(ctx, presets, *preset)
		if err != nil {
			log.Fatalf("Preset seeding failed: %v", err)
		}
	} else {
		plan := seed.DefaultPlan
		plan.Users = *numUsers
		plan.Posts = *numPosts
		res, err = s.Run(ctx, plan)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("All done: %d users, %d friendships, %d posts, %d vibes, %d reactions",
		res.Users, res.Friendships, res.Posts, res.Vibes, res.Reactions)
}
