package moderation

import (
	"errors"
	"fmt"
	"log"

	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/render"
	"jobboard-bot/internal/storage"
)

type InlineButton struct {
	Text         string
	CallbackData string
	URL          string
}

type InlineKeyboard [][]InlineButton

// Transport is the messaging surface the coordinator needs. The live
// implementation wraps the bot API; tests plug in a fake.
type Transport interface {
	SendText(chatID int64, text string, keyboard InlineKeyboard) (int, error)
	SendPhoto(chatID int64, imagePath, caption string, keyboard InlineKeyboard) (int, error)
	ClearKeyboard(chatID int64, messageID int) error
}

type Coordinator struct {
	store         *storage.Storage
	renderer      *render.Renderer
	transport     Transport
	localizer     *localization.Localizer
	reviewChatID  int64
	channelChatID int64
	defaultLang   string
}

func NewCoordinator(
	store *storage.Storage,
	renderer *render.Renderer,
	transport Transport,
	localizer *localization.Localizer,
	reviewChatID, channelChatID int64,
	defaultLang string,
) *Coordinator {
	return &Coordinator{
		store:         store,
		renderer:      renderer,
		transport:     transport,
		localizer:     localizer,
		reviewChatID:  reviewChatID,
		channelChatID: channelChatID,
		defaultLang:   defaultLang,
	}
}

// Submit persists the post as pending and puts it in front of the
// reviewers. A failed review notification propagates: the caller must know
// the post exists without a reviewer seeing it.
func (c *Coordinator) Submit(post *storage.Post) error {
	id, err := c.store.CreatePost(post)
	if err != nil {
		return fmt.Errorf("could not persist post: %w", err)
	}
	post.ID = id
	post.Status = storage.StatusPending

	keyboard := InlineKeyboard{{
		{Text: c.localizer.GetMessage(c.defaultLang, "btn_approve"), CallbackData: fmt.Sprintf("approve_post:%d", id)},
		{Text: c.localizer.GetMessage(c.defaultLang, "btn_reject"), CallbackData: fmt.Sprintf("reject_post:%d", id)},
	}}
	caption := c.renderer.ReviewCaption(post, c.defaultLang)

	var messageID int
	if post.ImagePath != "" {
		messageID, err = c.transport.SendPhoto(c.reviewChatID, post.ImagePath, caption, keyboard)
	} else {
		messageID, err = c.transport.SendText(c.reviewChatID, caption, keyboard)
	}
	if err != nil {
		return fmt.Errorf("failed to send review notification for post %d: %w", id, err)
	}

	if err := c.store.RecordBroadcastMapping(id, storage.MappingReview, c.reviewChatID, messageID); err != nil {
		return fmt.Errorf("could not record review mapping for post %d: %w", id, err)
	}
	return nil
}

// Approve publishes the post behind a review message. The pending→approved
// transition is a single conditional update, so when two reviewers race,
// the loser gets ErrConflict and nothing reaches the channel twice.
func (c *Coordinator) Approve(reviewMessageID int) (*storage.Post, error) {
	post, err := c.store.FindPostByBroadcastMessage(storage.MappingReview, c.reviewChatID, reviewMessageID)
	if err != nil {
		return nil, err
	}

	if err := c.store.TransitionPostStatus(post.ID, storage.StatusPending, storage.StatusApproved); err != nil {
		return nil, err
	}
	post.Status = storage.StatusApproved

	caption := c.renderer.ChannelCaption(post, c.defaultLang)
	keyboard := c.channelKeyboard(post)

	var messageID int
	if post.ImagePath != "" {
		messageID, err = c.transport.SendPhoto(c.channelChatID, post.ImagePath, caption, keyboard)
	} else {
		messageID, err = c.transport.SendText(c.channelChatID, caption, keyboard)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to publish post %d to channel: %w", post.ID, err)
	}

	if err := c.store.RecordBroadcastMapping(post.ID, storage.MappingChannel, c.channelChatID, messageID); err != nil {
		log.Printf("CRITICAL: post %d published but channel mapping not recorded: %v", post.ID, err)
	}

	if err := c.transport.ClearKeyboard(c.reviewChatID, reviewMessageID); err != nil {
		log.Printf("Failed to clear review keyboard for post %d: %v", post.ID, err)
	}

	c.notifySubmitter(post, "approved_notice")
	return post, nil
}

// Reject declines a post by internal or public id. The keyboard clear and
// the submitter notification are cosmetic; only the status transition can
// fail the call.
func (c *Coordinator) Reject(postID, reason string) (*storage.Post, error) {
	post, err := c.store.GetPostByAnyID(postID)
	if err != nil {
		return nil, err
	}

	if err := c.store.TransitionPostStatus(post.ID, storage.StatusPending, storage.StatusRejected); err != nil {
		return nil, err
	}
	post.Status = storage.StatusRejected

	if chatID, messageID, err := c.store.GetBroadcastMapping(post.ID, storage.MappingReview); err == nil {
		if err := c.transport.ClearKeyboard(chatID, messageID); err != nil {
			log.Printf("Failed to clear review keyboard for post %d: %v", post.ID, err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Could not look up review mapping for post %d: %v", post.ID, err)
	}

	c.notifySubmitter(post, "rejected_notice", render.HTMLEscape(reason))
	return post, nil
}

func (c *Coordinator) channelKeyboard(post *storage.Post) InlineKeyboard {
	lang := c.submitterLang(post)
	row := []InlineButton{{
		Text: c.localizer.GetMessage(lang, "btn_contact"),
		URL:  c.renderer.RedirectURL(post.PublicID, "contact"),
	}}
	if post.Fields.Portfolio != "" {
		row = append(row, InlineButton{
			Text: c.localizer.GetMessage(lang, "btn_portfolio"),
			URL:  c.renderer.RedirectURL(post.PublicID, "portfolio"),
		})
	}
	views := []InlineButton{{
		Text: c.localizer.Format(lang, "btn_views", post.Views),
		URL:  c.renderer.RedirectURL(post.PublicID, "views"),
	}}
	return InlineKeyboard{row, views}
}

func (c *Coordinator) submitterLang(post *storage.Post) string {
	lang, err := c.store.GetUserLanguage(post.UserID)
	if err != nil {
		log.Printf("Could not load language for user %d: %v", post.UserID, err)
	}
	if lang == "" {
		lang = c.defaultLang
	}
	return lang
}

func (c *Coordinator) notifySubmitter(post *storage.Post, key string, args ...interface{}) {
	if post.UserID == 0 {
		return
	}
	lang := c.submitterLang(post)
	text := c.localizer.Format(lang, key, args...)
	if _, err := c.transport.SendText(post.UserID, text, nil); err != nil {
		log.Printf("Failed to notify user %d about post %d: %v", post.UserID, post.ID, err)
	}
}
