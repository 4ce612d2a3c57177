package ctxutil

import (
	"os"
	"os/user"
	"strings"
)

// ActorEnv overrides the actor recorded in item history.
const ActorEnv = "TASKGRAPH_ACTOR"

// DetectActor returns the actor for this process: $TASKGRAPH_ACTOR when set,
// otherwise the OS user name. Empty when neither is available.
func DetectActor() string {
	if actor := strings.TrimSpace(os.Getenv(ActorEnv)); actor != "" {
		return actor
	}
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}
