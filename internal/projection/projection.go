// Package projection renders loaded content graphs into viewer-relative
// DTOs. Everything here is pure: relations, counts and membership sets are
// batch-loaded by the caller and passed in, so projecting a page never
// touches the database.
package projection

import (
	"time"

	"github.com/theline-social/theline/internal/model"
)

// NormalizeLang is the single place the default language is decided:
// anything that is not "en" renders Arabic.
func NormalizeLang(lang string) string {
	if lang == "en" {
		return "en"
	}
	return "ar"
}

// RelationSets are the viewer's outgoing edges, loaded once per request.
type RelationSets struct {
	Following map[uint]struct{}
	Muting    map[uint]struct{}
	Blocking  map[uint]struct{}
}

func NewRelationSets(following, muting, blocking []uint) RelationSets {
	return RelationSets{
		Following: toSet(following),
		Muting:    toSet(muting),
		Blocking:  toSet(blocking),
	}
}

func toSet(ids []uint) map[uint]struct{} {
	s := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// UserStats are relation-set cardinalities for one user.
type UserStats struct {
	Followers int64
	Following int64
}

// Inputs carries every batched lookup a page projection needs. Count and
// membership maps are keyed by content id; poll votes by poll id.
type Inputs struct {
	ViewerID uint
	Lang     string

	Rel       RelationSets
	UserStats map[uint]UserStats

	ReactCounts   map[uint]int64
	ReshareCounts map[uint]int64
	ReplyCounts   map[uint]int64
	Reacted       map[uint]bool
	Bookmarked    map[uint]bool
	Reshared      map[uint]bool

	Mentions map[uint][]model.Mention
	Polls    map[uint]*model.Poll
	Votes    map[uint][]model.PollVote
}

// AuthorCard is the reduced author sub-object every content DTO embeds.
type AuthorCard struct {
	ID               uint   `json:"id"`
	Image            string `json:"image"`
	Handle           string `json:"handle"`
	Name             string `json:"name"`
	Title            string `json:"title"`
	Bio              string `json:"bio"`
	SubscriptionTier string `json:"subscriptionTier"`
	FollowersCount   int64  `json:"followersCount"`
	FollowingCount   int64  `json:"followingCount"`
	IsFollowed       bool   `json:"isFollowed"`
	IsMuted          bool   `json:"isMuted"`
	IsBlocked        bool   `json:"isBlocked"`
}

type MediaDTO struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type PollOptionDTO struct {
	Label      string `json:"label"`
	VotesCount int64  `json:"votesCount"`
}

type PollDTO struct {
	ID                  uint            `json:"id"`
	Question            string          `json:"question"`
	Options             []PollOptionDTO `json:"options"`
	TotalVotesCount     int64           `json:"totalVotesCount"`
	SelectedOptionIndex int             `json:"selectedOptionIndex"` // -1 when the viewer has not voted
}

type TopicDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TweetDTO struct {
	ID               uint       `json:"id"`
	Kind             model.Kind `json:"kind"`
	Text             string     `json:"text,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	Poster           AuthorCard `json:"poster"`
	Media            []MediaDTO `json:"media,omitempty"`
	MentionedHandles []string   `json:"mentionedHandles,omitempty"`
	ReactCount       int64      `json:"reactCount"`
	ReshareCount     int64      `json:"reshareCount"`
	RepliesCount     int64      `json:"repliesCount"`
	IsReacted        bool       `json:"isReacted"`
	IsBookmarked     bool       `json:"isBookmarked"`
	IsReshared       bool       `json:"isReshared"`
	Poll             *PollDTO   `json:"poll,omitempty"`
	Original         *TweetDTO  `json:"original,omitempty"`
}

type ReelDTO struct {
	ID               uint       `json:"id"`
	Kind             model.Kind `json:"kind"`
	Text             string     `json:"text,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	Reeler           AuthorCard `json:"reeler"`
	VideoURL         string     `json:"videoUrl,omitempty"`
	ThumbURL         string     `json:"thumbUrl,omitempty"`
	Topics           []TopicDTO `json:"topics,omitempty"`
	MentionedHandles []string   `json:"mentionedHandles,omitempty"`
	ReactCount       int64      `json:"reactCount"`
	ReshareCount     int64      `json:"reshareCount"`
	RepliesCount     int64      `json:"repliesCount"`
	IsReacted        bool       `json:"isReacted"`
	IsBookmarked     bool       `json:"isBookmarked"`
	IsReshared       bool       `json:"isReshared"`
	Original         *ReelDTO   `json:"original,omitempty"`
}

// Author projects one user relative to the viewer.
func Author(u model.User, in Inputs) AuthorCard {
	stats := in.UserStats[u.ID]
	_, followed := in.Rel.Following[u.ID]
	_, muted := in.Rel.Muting[u.ID]
	_, blocked := in.Rel.Blocking[u.ID]
	return AuthorCard{
		ID:               u.ID,
		Image:            u.AvatarURL,
		Handle:           u.Handle,
		Name:             u.Name,
		Title:            u.Title,
		Bio:              u.Bio,
		SubscriptionTier: u.SubscriptionTier,
		FollowersCount:   stats.Followers,
		FollowingCount:   stats.Following,
		IsFollowed:       followed,
		IsMuted:          muted,
		IsBlocked:        blocked,
	}
}

// Tweet projects one tweet; a reshared original is projected exactly one
// level deep, its own original is dropped.
func Tweet(t *model.Tweet, in Inputs) TweetDTO {
	return projectTweet(t, in, true)
}

func projectTweet(t *model.Tweet, in Inputs, withOriginal bool) TweetDTO {
	dto := TweetDTO{
		ID:               t.ID,
		Kind:             t.Kind,
		CreatedAt:        t.CreatedAt,
		Poster:           Author(t.Author, in),
		MentionedHandles: mentionHandles(in.Mentions[t.ID]),
		ReactCount:       in.ReactCounts[t.ID],
		ReshareCount:     in.ReshareCounts[t.ID],
		RepliesCount:     in.ReplyCounts[t.ID],
		IsReacted:        in.Reacted[t.ID],
		IsBookmarked:     in.Bookmarked[t.ID],
		IsReshared:       in.Reshared[t.ID],
	}
	for _, m := range t.Media {
		dto.Media = append(dto.Media, MediaDTO{URL: m.URL, Type: m.Type})
	}
	if poll := in.Polls[t.ID]; poll != nil {
		p := Poll(poll, in.Votes[poll.ID], in.ViewerID)
		dto.Poll = &p
	}
	switch t.Kind {
	case model.KindOriginal, model.KindReply:
		dto.Text = t.Text
	case model.KindQuote:
		dto.Text = t.Text
		if withOriginal && t.Original != nil {
			orig := projectTweet(t.Original, in, false)
			dto.Original = &orig
		}
	case model.KindRepost:
		// a repost carries no content of its own
		if withOriginal && t.Original != nil {
			orig := projectTweet(t.Original, in, false)
			dto.Original = &orig
		}
	}
	return dto
}

// Reel projects one reel; topic labels are localized by the request language.
func Reel(r *model.Reel, in Inputs) ReelDTO {
	return projectReel(r, in, true)
}

func projectReel(r *model.Reel, in Inputs, withOriginal bool) ReelDTO {
	lang := NormalizeLang(in.Lang)
	dto := ReelDTO{
		ID:               r.ID,
		Kind:             r.Kind,
		CreatedAt:        r.CreatedAt,
		Reeler:           Author(r.Author, in),
		VideoURL:         r.VideoURL,
		ThumbURL:         r.ThumbURL,
		MentionedHandles: mentionHandles(in.Mentions[r.ID]),
		ReactCount:       in.ReactCounts[r.ID],
		ReshareCount:     in.ReshareCounts[r.ID],
		RepliesCount:     in.ReplyCounts[r.ID],
		IsReacted:        in.Reacted[r.ID],
		IsBookmarked:     in.Bookmarked[r.ID],
		IsReshared:       in.Reshared[r.ID],
	}
	for _, topic := range r.Topics {
		dto.Topics = append(dto.Topics, TopicDTO{
			ID:          topic.ID,
			Name:        topic.Name(lang),
			Description: topic.Description(lang),
		})
	}
	switch r.Kind {
	case model.KindOriginal, model.KindReply, model.KindQuote:
		dto.Text = r.Text
	case model.KindRepost:
	}
	if withOriginal && r.Original != nil && (r.Kind == model.KindQuote || r.Kind == model.KindRepost) {
		orig := projectReel(r.Original, in, false)
		dto.Original = &orig
	}
	return dto
}

// Poll computes option counts and the viewer's selection from the loaded
// vote rows. TotalVotesCount is always the sum of the option counts.
func Poll(p *model.Poll, votes []model.PollVote, viewerID uint) PollDTO {
	dto := PollDTO{
		ID:                  p.ID,
		Question:            p.Question,
		SelectedOptionIndex: -1,
	}
	byOption := make(map[uint]int64, len(p.Options))
	var selected uint
	for _, v := range votes {
		byOption[v.OptionID]++
		if v.UserID == viewerID {
			selected = v.OptionID
		}
	}
	for i, opt := range p.Options {
		cnt := byOption[opt.ID]
		dto.Options = append(dto.Options, PollOptionDTO{Label: opt.Label, VotesCount: cnt})
		dto.TotalVotesCount += cnt
		if selected != 0 && opt.ID == selected {
			dto.SelectedOptionIndex = i
		}
	}
	return dto
}

// mentionHandles flattens mention rows to the mentioned handles; timestamps
// and the mentioning user are dropped from the DTO.
func mentionHandles(mentions []model.Mention) []string {
	if len(mentions) == 0 {
		return nil
	}
	handles := make([]string, 0, len(mentions))
	for _, m := range mentions {
		handles = append(handles, m.Mentioned.Handle)
	}
	return handles
}
