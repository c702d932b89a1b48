package services

import (
	"SafeTube/interfaces"
	"SafeTube/models"
	"SafeTube/repositories"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

const (
	ruleApprovedVideo   = "approved_video"
	ruleBlocked         = "blocked"
	ruleStrictMode      = "strict_mode"
	ruleDurationCap     = "duration_cap"
	ruleBlockedCategory = "blocked_category"
	ruleKeyword         = "keyword"
	ruleAgeHeuristic    = "age_heuristic"
	ruleDefault         = "default"
	ruleUnavailable     = "unavailable"
)

// safetyFacts is everything the cascade needs, loaded before any rule runs so that
// the rules themselves stay pure.
type safetyFacts struct {
	child           models.Child
	filter          models.ContentFilter
	video           models.VideoDescriptor
	approvedVideo   bool
	block           *models.BlockedContent
	channelApproved bool
}

type safetyRule struct {
	name  string
	check func(facts safetyFacts) (models.SafetyDecision, bool)
}

// safetyCascade is evaluated top to bottom and the first matching rule decides.
// Explicit parent decisions come first, then the automated checks from cheapest to most
// content-dependent.
var safetyCascade = []safetyRule{
	{ruleApprovedVideo, checkApprovedVideo},
	{ruleBlocked, checkBlocked},
	{ruleStrictMode, checkStrictMode},
	{ruleDurationCap, checkDurationCap},
	{ruleBlockedCategory, checkBlockedCategory},
	{ruleKeyword, checkKeywords},
	{ruleAgeHeuristic, checkAgeHeuristic},
}

func checkApprovedVideo(f safetyFacts) (models.SafetyDecision, bool) {
	if !f.approvedVideo {
		return models.SafetyDecision{}, false
	}
	return allow("Approved by parent"), true
}

func checkBlocked(f safetyFacts) (models.SafetyDecision, bool) {
	if f.block == nil {
		return models.SafetyDecision{}, false
	}
	if f.block.Reason != "" {
		return deny(f.block.Reason), true
	}
	return deny("Blocked by parent"), true
}

func checkStrictMode(f safetyFacts) (models.SafetyDecision, bool) {
	if !f.filter.StrictMode || f.channelApproved {
		return models.SafetyDecision{}, false
	}
	return deny("Strict mode: channel not approved"), true
}

func checkDurationCap(f safetyFacts) (models.SafetyDecision, bool) {
	limit := f.filter.MaxVideoDurationMinutes
	if limit == nil || *limit <= 0 {
		return models.SafetyDecision{}, false
	}
	if !f.video.HasDuration() {
		return deny("Video length is unknown"), true
	}
	if f.video.DurationMinutes() > float64(*limit) {
		return deny(fmt.Sprintf("Video is longer than %d minutes", *limit)), true
	}
	return models.SafetyDecision{}, false
}

func checkBlockedCategory(f safetyFacts) (models.SafetyDecision, bool) {
	if f.video.CategoryID == "" {
		return models.SafetyDecision{}, false
	}
	for _, category := range f.filter.BlockedCategories {
		if category == f.video.CategoryID {
			return deny("Video category is blocked"), true
		}
	}
	return models.SafetyDecision{}, false
}

func checkKeywords(f safetyFacts) (models.SafetyDecision, bool) {
	text := strings.Join([]string{f.video.Title, f.video.Description, strings.Join(f.video.Tags, " ")}, " ")
	if keyword := matchKeyword(f.filter.BlockedKeywords, text); keyword != "" {
		return deny("Contains blocked keyword"), true
	}
	return models.SafetyDecision{}, false
}

func checkAgeHeuristic(f safetyFacts) (models.SafetyDecision, bool) {
	bracket := models.BracketForAge(f.child.Age)
	ceiling := models.MaxVideoMinutes(bracket)
	if ceiling == 0 {
		return models.SafetyDecision{}, false
	}
	if !f.video.HasDuration() {
		return deny(fmt.Sprintf("Video length is unknown (max %d minutes for age group)", ceiling)), true
	}
	if f.video.DurationMinutes() > float64(ceiling) {
		return deny(fmt.Sprintf("Video is too long for age group (max %d minutes)", ceiling)), true
	}
	return models.SafetyDecision{}, false
}

func matchKeyword(keywords []string, text string) string {
	haystack := strings.ToLower(text)
	for _, keyword := range keywords {
		needle := strings.ToLower(strings.TrimSpace(keyword))
		if needle != "" && strings.Contains(haystack, needle) {
			return keyword
		}
	}
	return ""
}

func allow(reason string) models.SafetyDecision {
	return models.SafetyDecision{Allowed: true, Reason: reason}
}

func deny(reason string) models.SafetyDecision {
	return models.SafetyDecision{Allowed: false, Reason: reason}
}

// runCascade is the single dispatcher over safetyCascade.
func runCascade(facts safetyFacts) models.SafetyDecision {
	for _, rule := range safetyCascade {
		if decision, matched := rule.check(facts); matched {
			decision.Rule = rule.name
			return decision
		}
	}
	decision := allow("Allowed")
	decision.Rule = ruleDefault
	return decision
}

// SearchResult is a catalog search already filtered for a child.
type SearchResult struct {
	Items        []models.CatalogItem `json:"items"`
	Filtered     int                  `json:"filtered"`
	QueryBlocked bool                 `json:"query_blocked"`
}

// FilterUpdate is a partial update of a content filter. A non-positive max duration removes the cap.
type FilterUpdate struct {
	StrictMode              *bool     `json:"strict_mode"`
	BlockedKeywords         *[]string `json:"blocked_keywords"`
	MaxVideoDurationMinutes *int      `json:"max_video_duration_minutes"`
	BlockedCategories       *[]string `json:"blocked_categories"`
}

// BlockInput describes content a parent wants to block. At least one id is required.
type BlockInput struct {
	VideoID   string `json:"video_id"`
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
	Reason    string `json:"reason"`
}

// ContentLists is the full allow/deny picture of a child.
type ContentLists struct {
	ApprovedVideos   []models.ApprovedVideo   `json:"approved_videos"`
	ApprovedChannels []models.ApprovedChannel `json:"approved_channels"`
	Blocked          []models.BlockedContent  `json:"blocked"`
}

type ContentSafetyService struct {
	ChildRepo    repositories.ChildRepository
	FilterRepo   repositories.ContentFilterRepository
	Whitelist    repositories.WhitelistRepository
	Blacklist    repositories.BlacklistRepository
	ActivityRepo repositories.ActivityLogRepository
	Catalog      interfaces.CatalogClient
	Hub          interfaces.Broadcaster
}

func NewContentSafetyService(
	childRepo repositories.ChildRepository,
	filterRepo repositories.ContentFilterRepository,
	whitelist repositories.WhitelistRepository,
	blacklist repositories.BlacklistRepository,
	activityRepo repositories.ActivityLogRepository,
	catalog interfaces.CatalogClient,
	hub interfaces.Broadcaster,
) *ContentSafetyService {
	return &ContentSafetyService{
		ChildRepo:    childRepo,
		FilterRepo:   filterRepo,
		Whitelist:    whitelist,
		Blacklist:    blacklist,
		ActivityRepo: activityRepo,
		Catalog:      catalog,
		Hub:          hub,
	}
}

// Evaluate decides whether the child may watch the video. Any store failure yields a deny
// together with the error.
func (s *ContentSafetyService) Evaluate(childID uint, video models.VideoDescriptor) (models.SafetyDecision, error) {
	child, err := s.loadChild(childID)
	if err != nil {
		return unavailable(), err
	}

	facts, err := s.gatherFacts(child, video)
	if err != nil {
		safetyDecisionsTotal.WithLabelValues(ruleUnavailable, "deny").Inc()
		return unavailable(), err
	}

	decision := runCascade(facts)
	s.record(child, video, decision)
	return decision, nil
}

// EvaluateVideo looks the video up in the catalog and evaluates it. A failed lookup denies.
func (s *ContentSafetyService) EvaluateVideo(ctx context.Context, childID uint, videoID string) (models.SafetyDecision, error) {
	if strings.TrimSpace(videoID) == "" {
		return unavailable(), InvalidInput("video_id is required")
	}
	if _, err := s.loadChild(childID); err != nil {
		return unavailable(), err
	}
	if s.Catalog == nil {
		return unavailable(), nil
	}

	video, err := s.Catalog.Details(ctx, videoID)
	if err != nil {
		log.Printf("[SAFETY] Details lookup failed for %s: %v", videoID, err)
		safetyDecisionsTotal.WithLabelValues(ruleUnavailable, "deny").Inc()
		return unavailable(), nil
	}
	if !video.Embeddable {
		decision := deny("Video cannot be played in the app")
		decision.Rule = ruleUnavailable
		return decision, nil
	}
	return s.Evaluate(childID, video)
}

// CheckText runs only the keyword rule. It is used on search strings and result titles.
func (s *ContentSafetyService) CheckText(childID uint, text string) (models.SafetyDecision, error) {
	if _, err := s.loadChild(childID); err != nil {
		return unavailable(), err
	}
	filter, err := s.loadFilter(childID)
	if err != nil {
		return unavailable(), err
	}
	return checkText(filter, text), nil
}

func checkText(filter models.ContentFilter, text string) models.SafetyDecision {
	if decision, matched := checkKeywords(safetyFacts{filter: filter, video: models.VideoDescriptor{Title: text}}); matched {
		decision.Rule = ruleKeyword
		return decision
	}
	decision := allow("Allowed")
	decision.Rule = ruleDefault
	return decision
}

// SearchForChild searches the catalog with the child's age bracket and strips results whose
// titles fail the keyword filter.
func (s *ContentSafetyService) SearchForChild(ctx context.Context, childID uint, query string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, InvalidInput("query is required")
	}
	child, err := s.loadChild(childID)
	if err != nil {
		return SearchResult{}, err
	}
	filter, err := s.loadFilter(childID)
	if err != nil {
		return SearchResult{}, err
	}

	result := SearchResult{Items: []models.CatalogItem{}}
	if decision := checkText(filter, query); !decision.Allowed {
		result.QueryBlocked = true
		recordActivity(s.ActivityRepo, childID, models.ActivityContentBlocked, "search: "+query)
		return result, nil
	}
	if s.Catalog == nil {
		return result, nil
	}

	items, err := s.Catalog.Search(ctx, query, models.BracketForAge(child.Age))
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return SearchResult{}, ServiceUnavailable("video search is temporarily unavailable")
		}
		log.Printf("[SAFETY] Search failed for child %d: %v", childID, err)
		return result, nil
	}

	for _, item := range items {
		if checkText(filter, item.Title).Allowed {
			result.Items = append(result.Items, item)
		} else {
			result.Filtered++
		}
	}
	return result, nil
}

// GetFilter returns the child's filter, creating the default one on first access.
func (s *ContentSafetyService) GetFilter(childID uint) (models.ContentFilter, error) {
	if _, err := s.loadChild(childID); err != nil {
		return models.ContentFilter{}, err
	}
	return s.loadFilter(childID)
}

func (s *ContentSafetyService) UpdateFilter(childID uint, update FilterUpdate) (models.ContentFilter, error) {
	filter, err := s.GetFilter(childID)
	if err != nil {
		return models.ContentFilter{}, err
	}

	if update.StrictMode != nil {
		filter.StrictMode = *update.StrictMode
	}
	if update.BlockedKeywords != nil {
		filter.BlockedKeywords = normalizeKeywords(*update.BlockedKeywords)
	}
	if update.MaxVideoDurationMinutes != nil {
		if *update.MaxVideoDurationMinutes > 0 {
			limit := *update.MaxVideoDurationMinutes
			filter.MaxVideoDurationMinutes = &limit
		} else {
			filter.MaxVideoDurationMinutes = nil
		}
	}
	if update.BlockedCategories != nil {
		filter.BlockedCategories = normalizeKeywords(*update.BlockedCategories)
	}

	if err := s.FilterRepo.Upsert(&filter); err != nil {
		return models.ContentFilter{}, Internal("save content filter", err)
	}
	s.emit(childID, interfaces.EventSettingsChanged, map[string]interface{}{"filter": filter})
	return filter, nil
}

func (s *ContentSafetyService) BlockContent(childID, parentID uint, input BlockInput) (models.BlockedContent, error) {
	input.VideoID = strings.TrimSpace(input.VideoID)
	input.ChannelID = strings.TrimSpace(input.ChannelID)
	if input.VideoID == "" && input.ChannelID == "" {
		return models.BlockedContent{}, InvalidInput("video_id or channel_id is required")
	}
	if _, err := s.loadChild(childID); err != nil {
		return models.BlockedContent{}, err
	}

	block := models.BlockedContent{
		ChildID:   childID,
		Title:     input.Title,
		Reason:    input.Reason,
		BlockedBy: parentID,
	}
	if input.VideoID != "" {
		block.VideoID = &input.VideoID
	}
	if input.ChannelID != "" {
		block.ChannelID = &input.ChannelID
	}
	if err := s.Blacklist.Create(&block); err != nil {
		return models.BlockedContent{}, Internal("create block", err)
	}

	s.emit(childID, interfaces.EventSettingsChanged, map[string]interface{}{"blocked": block})
	return block, nil
}

func (s *ContentSafetyService) UnblockContent(childID, blockID uint) error {
	if err := s.Blacklist.Delete(childID, blockID); err != nil {
		return storeError("delete block", "block", err)
	}
	s.emit(childID, interfaces.EventSettingsChanged, map[string]interface{}{"unblocked": blockID})
	return nil
}

func (s *ContentSafetyService) ApproveChannel(childID, parentID uint, channelID, title, thumbnail string) (models.ApprovedChannel, error) {
	if strings.TrimSpace(channelID) == "" {
		return models.ApprovedChannel{}, InvalidInput("channel_id is required")
	}
	if _, err := s.loadChild(childID); err != nil {
		return models.ApprovedChannel{}, err
	}

	channel := models.ApprovedChannel{
		ChildID:      childID,
		ChannelID:    channelID,
		ChannelTitle: title,
		ThumbnailURL: thumbnail,
		ApprovedBy:   parentID,
	}
	if err := s.Whitelist.UpsertApprovedChannel(&channel); err != nil {
		return models.ApprovedChannel{}, Internal("approve channel", err)
	}
	s.emit(childID, interfaces.EventSettingsChanged, map[string]interface{}{"approved_channel": channel})
	return channel, nil
}

func (s *ContentSafetyService) RemoveApprovedChannel(childID uint, channelID string) error {
	if err := s.Whitelist.DeleteApprovedChannel(childID, channelID); err != nil {
		return Internal("remove approved channel", err)
	}
	s.emit(childID, interfaces.EventSettingsChanged, map[string]interface{}{"removed_channel": channelID})
	return nil
}

func (s *ContentSafetyService) RemoveApprovedVideo(childID uint, videoID string) error {
	if err := s.Whitelist.DeleteApprovedVideo(childID, videoID); err != nil {
		return Internal("remove approved video", err)
	}
	s.emit(childID, interfaces.EventSettingsChanged, map[string]interface{}{"removed_video": videoID})
	return nil
}

func (s *ContentSafetyService) ListApproved(childID uint) (ContentLists, error) {
	if _, err := s.loadChild(childID); err != nil {
		return ContentLists{}, err
	}
	videos, err := s.Whitelist.ListApprovedVideos(childID)
	if err != nil {
		return ContentLists{}, Internal("list approved videos", err)
	}
	channels, err := s.Whitelist.ListApprovedChannels(childID)
	if err != nil {
		return ContentLists{}, Internal("list approved channels", err)
	}
	blocked, err := s.Blacklist.ListByChild(childID)
	if err != nil {
		return ContentLists{}, Internal("list blocked content", err)
	}
	return ContentLists{ApprovedVideos: videos, ApprovedChannels: channels, Blocked: blocked}, nil
}

func (s *ContentSafetyService) gatherFacts(child models.Child, video models.VideoDescriptor) (safetyFacts, error) {
	facts := safetyFacts{child: child, video: video}

	filter, err := s.loadFilter(child.ID)
	if err != nil {
		return facts, err
	}
	facts.filter = filter

	if video.VideoID != "" {
		if _, err := s.Whitelist.FindApprovedVideo(child.ID, video.VideoID); err == nil {
			facts.approvedVideo = true
			return facts, nil
		} else if !isNotFound(err) {
			return facts, Internal("load approved video", err)
		}
	}

	block, err := s.Blacklist.FindMatch(child.ID, video.VideoID, video.ChannelID)
	switch {
	case err == nil:
		facts.block = &block
		return facts, nil
	case !isNotFound(err):
		return facts, Internal("load blocked content", err)
	}

	if filter.StrictMode && video.ChannelID != "" {
		approved, err := s.Whitelist.IsChannelApproved(child.ID, video.ChannelID)
		if err != nil {
			return facts, Internal("load approved channel", err)
		}
		facts.channelApproved = approved
	}
	return facts, nil
}

func (s *ContentSafetyService) loadChild(childID uint) (models.Child, error) {
	child, err := s.ChildRepo.FindByID(childID)
	if err != nil {
		return models.Child{}, storeError("load child", "child", err)
	}
	return child, nil
}

// loadFilter returns the child's filter, creating the default row when none exists.
func (s *ContentSafetyService) loadFilter(childID uint) (models.ContentFilter, error) {
	filter, err := s.FilterRepo.FindByChildID(childID)
	if err == nil {
		return filter, nil
	}
	if !isNotFound(err) {
		return models.ContentFilter{}, Internal("load content filter", err)
	}

	filter = models.DefaultContentFilter(childID)
	if err := s.FilterRepo.Upsert(&filter); err != nil {
		return models.ContentFilter{}, Internal("create content filter", err)
	}
	return filter, nil
}

func (s *ContentSafetyService) record(child models.Child, video models.VideoDescriptor, decision models.SafetyDecision) {
	verdict := "allow"
	if !decision.Allowed {
		verdict = "deny"
	}
	safetyDecisionsTotal.WithLabelValues(decision.Rule, verdict).Inc()
	if decision.Allowed {
		return
	}

	recordActivity(s.ActivityRepo, child.ID, models.ActivityContentBlocked,
		fmt.Sprintf("%s (%s): %s", video.Title, video.VideoID, decision.Reason))
	s.emit(child.ID, interfaces.EventContentBlocked, map[string]interface{}{
		"video_id":   video.VideoID,
		"channel_id": video.ChannelID,
		"title":      video.Title,
		"reason":     decision.Reason,
		"rule":       decision.Rule,
	})
}

func (s *ContentSafetyService) emit(childID uint, event string, payload interface{}) {
	if s.Hub != nil {
		s.Hub.EmitToChild(childID, event, payload)
	}
}

func unavailable() models.SafetyDecision {
	return models.SafetyDecision{Allowed: false, Reason: "Unable to verify this video right now", Rule: ruleUnavailable}
}

func normalizeKeywords(values []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}
