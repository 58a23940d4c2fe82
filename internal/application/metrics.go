package application

import "expvar"

// Counters published on /api/debug/vars.
var (
	recipesCreated   = expvar.NewInt("recipes_created")
	ratingsSubmitted = expvar.NewInt("ratings_submitted")
	imagesOrphaned   = expvar.NewInt("images_orphaned")
)
