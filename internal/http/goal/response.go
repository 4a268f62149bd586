package goal

import (
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
)

type goalResponse struct {
	*goal.Goal

	Progress float64     `json:"progress"`
	Status   goal.Status `json:"status"`
	DaysLeft int         `json:"daysLeft"`
}

func toResponse(g *goal.Goal, now time.Time) goalResponse {
	return goalResponse{
		Goal:     g,
		Progress: g.ClampedProgress(),
		Status:   g.Status(now),
		DaysLeft: g.DaysLeft(now),
	}
}

func toResponseList(goals []*goal.Goal, now time.Time) []goalResponse {
	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g, now)
	}

	return resp
}
