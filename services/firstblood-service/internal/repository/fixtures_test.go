package repository

import (
	"fmt"
	"time"

	"github.com/burakmert236/firstblood/common/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		RunID:       "run-1",
		Source:      "export.zip",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Awards: []models.AwardRecord{
			{ChallengeName: "warmup", TeamName: "red", TeamMembers: []string{"alice", "bob"}},
			{ChallengeName: "pwn <1>", TeamName: "blue & co", TeamMembers: []string{}},
		},
	}
}

func reportWithAwards(n int) *models.Report {
	report := &models.Report{
		RunID:       "run-big",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Awards:      make([]models.AwardRecord, n),
	}
	for i := range report.Awards {
		report.Awards[i] = models.AwardRecord{
			ChallengeName: fmt.Sprintf("chal-%d", i),
			TeamName:      "team",
			TeamMembers:   []string{"member"},
		}
	}
	return report
}
