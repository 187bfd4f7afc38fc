package domain

// Repository identifies the repository the triggering event belongs to.
type Repository struct {
	Owner    string
	Name     string
	FullName string
}

// Inputs are the action configuration inputs, parsed once at process entry
// and threaded through every component. No component reads ambient state.
type Inputs struct {
	// TriggerPhrase is the mention string that activates interactive mode
	// inside comment text. Defaults to "@claude".
	TriggerPhrase string

	// AssigneeTrigger activates interactive mode when an issue is assigned
	// to this username. Optional.
	AssigneeTrigger string

	// LabelTrigger activates interactive mode when this label is applied
	// to an issue. Optional.
	LabelTrigger string

	// BranchPrefix is prepended to branches created for assistant work.
	BranchPrefix string

	// UseStickyComment reuses a single tracking comment per entity instead
	// of creating a new one per run.
	UseStickyComment bool

	// UseCommitSigning enables signed commits on assistant branches.
	UseCommitSigning bool

	// BotID is the numeric account id the assistant posts as.
	BotID int64

	// BotName is the login the assistant posts as.
	BotName string

	// AllowedBots is a comma-separated list of bot logins permitted to
	// trigger runs, or "*" for any bot.
	AllowedBots string

	// AllowedNonWriteUsers is a comma-separated list of usernames exempt
	// from the write-permission requirement, or "*". Honored only for
	// directly supplied tokens, never for app-issued tokens.
	AllowedNonWriteUsers string

	// TrackProgress forces tracking-comment behavior on supported events.
	TrackProgress bool

	// Prompt is the explicit automation prompt. Optional.
	Prompt string

	// BaseBranch overrides the branch new assistant branches start from.
	BaseBranch string
}

// Common holds the fields shared by both context variants.
type Common struct {
	RunID       string
	EventName   EventName
	EventAction string
	Repository  Repository
	Actor       string
	Inputs      Inputs
}

// Context is a normalized GitHub event. Exactly two variants exist:
// EntityContext for events tied to an issue or pull request, and
// AutomationContext for scheduled or dispatched events. Consumers
// type-switch over the variants; entity-only fields are unreachable
// from an automation value by construction.
type Context interface {
	CommonFields() Common
	isContext()
}

// EntityContext is a normalized event tied to a specific issue or PR.
type EntityContext struct {
	Common
	EntityNumber int
	IsPR         bool
	Payload      EntityPayload
}

// AutomationContext is a normalized event with no associated issue or PR.
type AutomationContext struct {
	Common
	Payload AutomationPayload
}

func (c *EntityContext) CommonFields() Common { return c.Common }
func (c *EntityContext) isContext()           {}

func (c *AutomationContext) CommonFields() Common { return c.Common }
func (c *AutomationContext) isContext()           {}

// HasComment reports whether the triggering event carries a comment or
// review body that can be scanned for the trigger phrase.
func (c *EntityContext) HasComment() bool {
	return c.Payload.Comment != nil || c.Payload.Review != nil
}
