// Package gate holds the trust checks that run before any mode is prepared:
// the human-actor check and the write-permission check. Automation contexts
// skip both; they have no actor to gate beyond platform run authorization.
package gate

import (
	"context"
	"fmt"
	"strings"

	"github.com/openclaw/claude-action/internal/domain"
)

// botSuffix is the marker GitHub appends to app account logins.
const botSuffix = "[bot]"

// UserAPI resolves account metadata for an actor login.
type UserAPI interface {
	// UserAccountType returns the account type ("User", "Bot",
	// "Organization") for a login.
	UserAccountType(ctx context.Context, login string) (string, error)
}

// PermissionAPI resolves repository collaborator permission levels.
type PermissionAPI interface {
	// CollaboratorPermission returns the permission level ("admin",
	// "write", "read", "none") the login has on the repository.
	CollaboratorPermission(ctx context.Context, repo domain.Repository, login string) (string, error)
}

// Logger receives structured gate decisions. Security-relevant bypasses are
// logged loudly through LogWarning.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// CheckHumanActor verifies the triggering actor is a human user or an
// explicitly allowed bot. A disallowed actor is an authorization error that
// aborts the run before any side effect.
func CheckHumanActor(ctx context.Context, api UserAPI, actor string, inputs domain.Inputs) error {
	actorType, err := api.UserAccountType(ctx, actor)
	if err != nil {
		return fmt.Errorf("look up account type for %s: %w", actor, err)
	}

	if actorType == "User" {
		return nil
	}

	allowed := strings.TrimSpace(inputs.AllowedBots)
	if allowed == "*" {
		return nil
	}
	if allowed != "" {
		normalizedActor := normalizeBotName(actor)
		for _, entry := range strings.Split(allowed, ",") {
			if strings.TrimSpace(entry) == "" {
				continue
			}
			if normalizeBotName(entry) == normalizedActor {
				return nil
			}
		}
	}

	return fmt.Errorf(
		"workflow initiated by non-human actor: %s (type: %s). Add %q to allowed_bots or set allowed_bots: '*' to permit it",
		actor, actorType, actor,
	)
}

// CheckWritePermissions reports whether the actor may direct the assistant.
//
// The non-write-user bypass is deliberately narrow: it applies only when
// the run uses a directly supplied token, never an app-issued one, so an
// installed app cannot be talked into widening its own audience. A false
// return means insufficient permission (caller renders a clean message); a
// non-nil error means the permission lookup itself failed and the run must
// abort.
func CheckWritePermissions(
	ctx context.Context,
	api PermissionAPI,
	logger Logger,
	repo domain.Repository,
	actor string,
	inputs domain.Inputs,
	githubTokenProvided bool,
) (bool, error) {
	bypassList := strings.TrimSpace(inputs.AllowedNonWriteUsers)
	if bypassList != "" && githubTokenProvided {
		if bypassList == "*" {
			logger.LogWarning(ctx, "SECURITY: allowing non-write user due to allowed_non_write_users: '*'", map[string]interface{}{
				"actor": actor,
			})
			return true, nil
		}
		for _, entry := range strings.Split(bypassList, ",") {
			if strings.TrimSpace(entry) == actor {
				logger.LogWarning(ctx, "SECURITY: allowing non-write user listed in allowed_non_write_users", map[string]interface{}{
					"actor": actor,
				})
				return true, nil
			}
		}
	}

	// App accounts run with scoped, already-restricted installation tokens.
	if strings.HasSuffix(actor, botSuffix) {
		logger.LogInfo(ctx, "actor is a GitHub App, skipping permission check", map[string]interface{}{
			"actor": actor,
		})
		return true, nil
	}

	level, err := api.CollaboratorPermission(ctx, repo, actor)
	if err != nil {
		return false, fmt.Errorf("check permissions for %s: %w", actor, err)
	}

	if level == "admin" || level == "write" {
		return true, nil
	}

	logger.LogWarning(ctx, "actor lacks write permission", map[string]interface{}{
		"actor":      actor,
		"permission": level,
	})
	return false, nil
}

func normalizeBotName(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), botSuffix)
}
