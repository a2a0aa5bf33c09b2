// Recomputes every exam's times-taken counter and average score from
// the stored submissions. Normally the running stats are updated on
// each submit; run this after importing data or repairing rows by hand.
//
// Usage: go run scripts/backfill_exam_stats.go

package main

import (
	"log"

	"acaia_backend/internal/config"
	"acaia_backend/internal/model"
	"acaia_backend/pkg/database"
	"acaia_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	if !cfg.Database.Enabled {
		log.Fatal("MySQL is disabled in the config; nothing to backfill")
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var exams []model.Exam
	if err := db.Preload("Submissions").Find(&exams).Error; err != nil {
		log.Fatalf("Failed to load exams: %v", err)
	}

	updated := 0
	for i := range exams {
		exam := &exams[i]

		timesTaken := len(exam.Submissions)
		var average float64
		if timesTaken > 0 {
			var total float64
			for j := range exam.Submissions {
				total += exam.Submissions[j].Score
			}
			average = total / float64(timesTaken)
		}

		if exam.TimesTaken == timesTaken && exam.AverageScore == average {
			continue
		}

		err := db.Model(&model.Exam{}).Where("id = ?", exam.ID).
			Updates(map[string]interface{}{
				"times_taken":   timesTaken,
				"average_score": average,
			}).Error
		if err != nil {
			log.Fatalf("Failed to update exam %d: %v", exam.ID, err)
		}
		log.Printf("exam %d: times_taken %d -> %d, average_score %.2f -> %.2f",
			exam.ID, exam.TimesTaken, timesTaken, exam.AverageScore, average)
		updated++
	}

	log.Printf("Done, %d of %d exams updated", updated, len(exams))
}
