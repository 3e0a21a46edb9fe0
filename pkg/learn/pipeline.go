// Package learn implements the self-learning pipeline: pick a topic, pull
// fresh search context, absorb it, and compose a post in the agent's voice.
package learn

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/config"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/prompt"
	"github.com/seilorhq/faithagent/pkg/providers"
	"github.com/seilorhq/faithagent/pkg/search"
	"github.com/seilorhq/faithagent/pkg/state"
	"github.com/seilorhq/faithagent/pkg/utils"
)

// Stage names used in StageError.
const (
	StageDiscoverTopic = "discover_topic"
	StageRetrieve      = "retrieve"
	StageAbsorb        = "absorb"
	StageComposePost   = "compose_post"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("learn stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result is one completed pipeline run.
type Result struct {
	Topic     string
	Knowledge string
	Digest    string
	Post      string
}

// Searcher is the retrieval dependency; absence of results is not an error.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, bool)
}

// Pipeline runs the learning stages in order. A topic-discovery failure
// aborts the run before any retrieval happens; missing search results are
// tolerated and the later stages run on whatever context is available.
type Pipeline struct {
	cfg      *config.Config
	client   providers.Client
	searcher Searcher
	states   *state.Provider
}

func NewPipeline(cfg *config.Config, client providers.Client, searcher Searcher, states *state.Provider) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		client:   client,
		searcher: searcher,
		states:   states,
	}
}

// Run executes all four stages and returns the composed post.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	topic, err := p.DiscoverTopic(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageDiscoverTopic, Err: err}
	}
	logger.InfoCF("learn", "Discovered topic", map[string]interface{}{"topic": topic})

	knowledge := p.Retrieve(ctx, topic)

	digest, err := p.Absorb(ctx, knowledge)
	if err != nil {
		return nil, &StageError{Stage: StageAbsorb, Err: err}
	}

	post, err := p.ComposePost(ctx, topic, digest)
	if err != nil {
		return nil, &StageError{Stage: StageComposePost, Err: err}
	}

	return &Result{
		Topic:     topic,
		Knowledge: knowledge,
		Digest:    digest,
		Post:      post,
	}, nil
}

// DiscoverTopic asks the small model to pick keywords from the character's
// configured topics.
func (p *Pipeline) DiscoverTopic(ctx context.Context) (string, error) {
	topics := strings.Join(p.cfg.Character.Topics, ", ")
	promptText := fmt.Sprintf(`Extract 1-3 keywords that you are currently interested in from the message:
%s
Only respond with the keywords, do not include any other text.
`, topics)

	topic, err := p.client.GenerateText(ctx, promptText, providers.TierSmall, []string{"\n"})
	if err != nil {
		return "", err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("empty topic from model")
	}
	return topic, nil
}

// Retrieve pulls past-day search results for the topic. Missing results
// degrade to empty knowledge; the pipeline continues either way.
func (p *Pipeline) Retrieve(ctx context.Context, topic string) string {
	if p.searcher == nil {
		return ""
	}
	results, ok := p.searcher.Search(ctx, topic+" last news")
	if !ok {
		logger.WarnCF("learn", "No search results, continuing without fresh context",
			map[string]interface{}{"topic": topic})
		return ""
	}
	return search.FormatResults(results)
}

// Absorb digests raw search context through the large model.
func (p *Pipeline) Absorb(ctx context.Context, knowledge string) (string, error) {
	promptText := fmt.Sprintf(`# Task: Extract knowledge from the API response and learn from it.
API Response: %s
Your learn from the API response.
Your response not contain any api response keywords.`, knowledge)

	digest, err := p.client.GenerateText(ctx, promptText, providers.TierLarge, []string{"\n"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(digest), nil
}

// ComposePost renders the post template against a fresh state snapshot for
// the deterministic post room and generates the final post text.
func (p *Pipeline) ComposePost(ctx context.Context, topic, digest string) (string, error) {
	msg := bus.Message{
		ID:      uuid.New(),
		RoomID:  p.PostRoomID(),
		UserID:  bus.RoomID(p.cfg.Agent.Name),
		AgentID: bus.RoomID(p.cfg.Agent.Name),
		Content: bus.Content{Text: topic, Action: "TWEET"},
	}

	st := p.states.Compose(ctx, msg, map[string]interface{}{
		"knowledge":       digest,
		"topic":           topic,
		"twitterUserName": p.cfg.Agent.TwitterUserName,
	})

	rendered := prompt.Compose(st, prompt.PostTemplate)
	post, err := p.client.GenerateText(ctx, rendered, providers.TierLarge, nil)
	if err != nil {
		return "", err
	}

	// The template instructs the model about the limit; enforce it anyway.
	return utils.Truncate(strings.TrimSpace(post), p.cfg.Agent.MaxPostLength), nil
}

// PostRoomID is the stable room every generated post lands in. Derived from
// the agent name so reruns address the same room.
func (p *Pipeline) PostRoomID() uuid.UUID {
	return bus.RoomID("twitter_generate_room-" + p.cfg.Agent.Name)
}
