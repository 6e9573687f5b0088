package instance

import "github.com/angelmondragon/reactmeals-backend/pkg/env"

// GetID returns the process instance identifier. Heroku sets DYNO; anything
// else falls back to HOSTNAME, then "local".
func GetID() string {
	return env.First("local", "DYNO", "HOSTNAME")
}
