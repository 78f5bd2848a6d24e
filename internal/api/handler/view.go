package handler

import (
	"github.com/sangsom/minime/internal/api/response"
	"github.com/sangsom/minime/internal/model"
	"github.com/sangsom/minime/internal/rewards"
)

// profileView builds the API view of a profile, attaching the derived
// mood and level
func profileView(svc *rewards.Service, p model.Profile) response.Profile {
	return response.ProfileFromModel(p, svc.Mood(p), svc.Level(p))
}
