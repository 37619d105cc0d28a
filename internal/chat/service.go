package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suvai/freshmart-backend/internal/catalog"
	"github.com/suvai/freshmart-backend/internal/locator"
	"github.com/suvai/freshmart-backend/pkg/chatapi"
	"github.com/suvai/freshmart-backend/pkg/enums"
	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/geo"
	"github.com/suvai/freshmart-backend/pkg/localstore"
	"github.com/suvai/freshmart-backend/pkg/logger"
)

const sessionIDKeyPrefix = "chatbot_session_id:"

const sessionIDRandomLength = 9

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// backendClient is the slice of chatapi.Client the service needs.
type backendClient interface {
	Send(ctx context.Context, req chatapi.Request) (*chatapi.Response, error)
}

// Service runs one chat conversation per connected client. History lives in
// process memory; only the session id is persisted.
type Service interface {
	Session(ctx context.Context, clientID string) (SessionInfo, error)
	SendMessage(ctx context.Context, clientID, text string) (Reply, error)
	SetLocation(ctx context.Context, clientID string, point geo.Point) (Reply, error)
	ReportLocationFailure(ctx context.Context, clientID string, code enums.GeolocationError) (Reply, error)
}

type session struct {
	id       string
	busy     bool
	history  []Message
	location *geo.Point
}

type service struct {
	mu            sync.Mutex
	sessions      map[string]*session
	backend       backendClient
	store         localstore.Store
	products      catalog.Catalog
	stores        locator.Service
	logg          *logger.Logger
	fallbackDelay time.Duration
}

// NewService builds a chat service over the backend client and local data.
func NewService(
	backend backendClient,
	store localstore.Store,
	products catalog.Catalog,
	stores locator.Service,
	logg *logger.Logger,
	fallbackDelay time.Duration,
) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("chat backend client required")
	}
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product catalog required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store locator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if fallbackDelay < 0 {
		return nil, fmt.Errorf("fallback delay must be non-negative")
	}
	return &service{
		sessions:      map[string]*session{},
		backend:       backend,
		store:         store,
		products:      products,
		stores:        stores,
		logg:          logg,
		fallbackDelay: fallbackDelay,
	}, nil
}

// Session returns the client's conversation, generating and persisting the
// session id on first contact.
func (s *service) Session(ctx context.Context, clientID string) (SessionInfo, error) {
	if clientID == "" {
		return SessionInfo{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(ctx, clientID)
	if err != nil {
		return SessionInfo{}, err
	}

	history := make([]Message, len(sess.history))
	copy(history, sess.history)

	return SessionInfo{
		SessionID: sess.id,
		Location:  sess.location,
		History:   history,
		Welcome:   welcomeMessages(),
	}, nil
}

// sessionLocked resolves the in-memory session, loading or minting the
// persisted session id as needed. Callers hold s.mu.
func (s *service) sessionLocked(ctx context.Context, clientID string) (*session, error) {
	if sess, ok := s.sessions[clientID]; ok {
		return sess, nil
	}

	key := sessionIDKeyPrefix + clientID
	id, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.logg.Warn(ctx, "session id blob unreadable, minting a new id: "+err.Error())
		}
		id = newSessionID()
		if err := s.store.Set(ctx, key, id); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session id")
		}
	}

	sess := &session{id: id}
	s.sessions[clientID] = sess
	return sess, nil
}

func newSessionID() string {
	random := make([]byte, sessionIDRandomLength)
	for i := range random {
		random[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), random)
}

// SendMessage processes one user message: location statements are handled
// locally, everything else goes to the backend with local heuristics as the
// fallback. Overlapping sends on one session are rejected.
func (s *service) SendMessage(ctx context.Context, clientID, text string) (Reply, error) {
	if clientID == "" {
		return Reply{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, pkgerrors.New(pkgerrors.CodeValidation, "message must not be empty")
	}

	s.mu.Lock()
	sess, err := s.sessionLocked(ctx, clientID)
	if err != nil {
		s.mu.Unlock()
		return Reply{}, err
	}
	if sess.busy {
		s.mu.Unlock()
		return Reply{}, pkgerrors.New(pkgerrors.CodeSessionBusy, "still processing the previous message")
	}
	sess.busy = true
	sess.history = append(sess.history, Message{Role: enums.MessageRoleUser, Text: text})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		sess.busy = false
		s.mu.Unlock()
	}()

	var reply Reply
	if isLocationStatement(text) {
		reply = s.handleLocationStatement(sess, text)
	} else {
		reply, err = s.handleBackendMessage(ctx, sess, text)
		if err != nil {
			return Reply{}, err
		}
	}

	reply.SessionID = sess.id
	s.appendBotMessages(sess, reply.Messages)
	return reply, nil
}

func (s *service) appendBotMessages(sess *session, messages []BotMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range messages {
		sess.history = append(sess.history, Message{Role: enums.MessageRoleBot, Text: msg.Text})
	}
}

// handleLocationStatement sets the session location from the message and runs
// the nearby-stores path without touching the backend.
func (s *service) handleLocationStatement(sess *session, text string) Reply {
	var confirmation BotMessage
	if area, ok := matchArea(text); ok {
		s.setLocation(sess, area.Point)
		confirmation = BotMessage{
			Text: fmt.Sprintf("Great! I've set your location to %s. Now I can help you find nearby stores! 📍", titleCase(area.Name)),
		}
	} else {
		s.setLocation(sess, fallbackLocation)
		confirmation = BotMessage{
			Text: "I've set your location to New York City area. If you need stores in a different area, " +
				"please let me know your specific neighborhood or city.",
		}
	}

	reply := s.nearbyStoresReply(sess)
	reply.Source = ReplySourceLocation
	reply.Messages = append([]BotMessage{confirmation}, reply.Messages...)
	return reply
}

func (s *service) setLocation(sess *session, point geo.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := point
	sess.location = &p
}

func (s *service) sessionLocation(sess *session) *geo.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.location == nil {
		return nil
	}
	p := *sess.location
	return &p
}

// handleBackendMessage tries the remote backend once; any failure is total
// and falls back to local heuristics after a short pause.
func (s *service) handleBackendMessage(ctx context.Context, sess *session, text string) (Reply, error) {
	resp, err := s.backend.Send(ctx, chatapi.Request{
		Message:   text,
		Location:  s.sessionLocation(sess),
		SessionID: sess.id,
	})
	if err == nil {
		return s.remoteReply(resp), nil
	}

	s.logg.Warn(ctx, "chat backend unavailable, falling back to local handling: "+err.Error())

	reply := s.localReply(sess, text)
	reply.Messages = append([]BotMessage{{Text: apologyMessage}}, reply.Messages...)

	if s.fallbackDelay > 0 {
		timer := time.NewTimer(s.fallbackDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Reply{}, pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "message processing interrupted")
		case <-timer.C:
		}
	}

	return reply, nil
}

func (s *service) remoteReply(resp *chatapi.Response) Reply {
	reply := Reply{
		Source:   ReplySourceRemote,
		Type:     ReplyType(resp.Type),
		Messages: []BotMessage{{Text: resp.Message}},
	}
	for _, p := range resp.Products {
		reply.Products = append(reply.Products, ProductListing{
			Name:     p.Name,
			Price:    decimal.NewFromFloat(p.Price),
			Category: p.Category,
		})
	}
	for _, st := range resp.Stores {
		reply.Stores = append(reply.Stores, StoreListing{
			Name:         st.Name,
			DistanceKm:   st.Distance,
			Address:      st.Address,
			Location:     geo.Point{Latitude: st.Latitude, Longitude: st.Longitude},
			Availability: enums.Availability(st.AvailabilityStatus),
		})
	}
	return reply
}

// localReply applies the keyword heuristics in priority order.
func (s *service) localReply(sess *session, text string) Reply {
	lower := strings.ToLower(text)

	switch {
	case isProductQuery(lower, s.products):
		return s.productSearchReply(sess, lower)
	case isLocationQuery(lower):
		return s.locationQueryReply(sess)
	case isHelpQuery(lower):
		return Reply{
			Source:   ReplySourceLocal,
			Type:     ReplyTypeText,
			Messages: []BotMessage{{Text: helpMessage}},
		}
	default:
		return s.defaultReply()
	}
}

func (s *service) productSearchReply(sess *session, lower string) Reply {
	matched := matchProducts(lower, s.products)
	if len(matched) == 0 {
		return Reply{
			Source:   ReplySourceLocal,
			Type:     ReplyTypeProductSearch,
			Messages: []BotMessage{{Text: noProductMatchMessage}},
		}
	}

	shown := matched
	if len(shown) > 5 {
		shown = shown[:5]
	}

	var rows []string
	listings := make([]ProductListing, 0, len(shown))
	for _, p := range shown {
		rows = append(rows, fmt.Sprintf("• %s - $%s (%s)", p.Name, p.Price.StringFixed(2), p.Category))
		listings = append(listings, ProductListing{Name: p.Name, Price: p.Price, Category: string(p.Category)})
	}

	reply := Reply{
		Source:   ReplySourceLocal,
		Type:     ReplyTypeProductSearch,
		Products: listings,
		Messages: []BotMessage{{
			Text: "I found these products for you:\n\n" + strings.Join(rows, "\n") +
				"\n\nWould you like me to find stores that have these items in stock?",
		}},
	}

	stocked := s.stores.WithProducts(s.sessionLocation(sess), matched)
	if len(stocked) > 3 {
		stocked = stocked[:3]
	}
	for _, store := range stocked {
		reply.Stores = append(reply.Stores, StoreListing{
			Name:         store.Store.Name,
			DistanceKm:   store.DistanceKm,
			Address:      store.Store.Address,
			Location:     store.Store.Location,
			Availability: store.Availability,
		})
	}
	reply.Messages = append(reply.Messages, BotMessage{
		Text: "Here are the nearest stores with your requested products:",
	})
	return reply
}

func (s *service) locationQueryReply(sess *session) Reply {
	if s.sessionLocation(sess) == nil {
		return Reply{
			Source: ReplySourceLocal,
			Type:   ReplyTypeText,
			Messages: []BotMessage{{
				Text: "I'd love to help you find nearby stores! I can help you in two ways:",
				QuickActions: []QuickAction{
					{Label: "📍 Use My Location", Message: "use my location"},
					{Label: "📝 Enter Address", Message: "I'm in Manhattan"},
				},
			}},
		}
	}
	reply := s.nearbyStoresReply(sess)
	reply.Source = ReplySourceLocal
	return reply
}

func (s *service) nearbyStoresReply(sess *session) Reply {
	ranked := s.stores.Nearby(s.sessionLocation(sess))
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	var rows []string
	listings := make([]StoreListing, 0, len(ranked))
	for _, entry := range ranked {
		rows = append(rows, fmt.Sprintf("• %s - %.1f km away\n  %s", entry.Store.Name, entry.DistanceKm, entry.Store.Address))
		listings = append(listings, StoreListing{
			Name:       entry.Store.Name,
			DistanceKm: entry.DistanceKm,
			Address:    entry.Store.Address,
			Location:   entry.Store.Location,
		})
	}

	return Reply{
		Type:   ReplyTypeStoreLocations,
		Stores: listings,
		Messages: []BotMessage{{
			Text: "Here are the nearest SUVAI stores:\n\n" + strings.Join(rows, "\n\n") +
				"\n\nWould you like directions to any of these stores?",
			QuickActions: []QuickAction{{Label: "📍 View on Map", Message: "show map"}},
		}},
	}
}

func (s *service) defaultReply() Reply {
	return Reply{
		Source: ReplySourceLocal,
		Type:   ReplyTypeText,
		Messages: []BotMessage{
			{Text: defaultResponses[rand.Intn(len(defaultResponses))]},
			{
				Text: "Here are some things I can help you with:",
				QuickActions: []QuickAction{
					{Label: "Find Products", Message: "find apples"},
					{Label: "Find Stores", Message: "nearby stores"},
					{Label: "Get Help", Message: "help me"},
				},
			},
		},
	}
}

// SetLocation records a client-reported position for the session.
func (s *service) SetLocation(ctx context.Context, clientID string, point geo.Point) (Reply, error) {
	if clientID == "" {
		return Reply{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := geo.Validate(point); err != nil {
		return Reply{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coordinates")
	}

	s.mu.Lock()
	sess, err := s.sessionLocked(ctx, clientID)
	if err != nil {
		s.mu.Unlock()
		return Reply{}, err
	}
	p := point
	sess.location = &p
	s.mu.Unlock()

	reply := Reply{
		SessionID: sess.id,
		Source:    ReplySourceLocation,
		Type:      ReplyTypeText,
		Messages: []BotMessage{{
			Text: "📍 Great! I can now help you find nearby stores based on your location.",
		}},
	}
	s.appendBotMessages(sess, reply.Messages)
	return reply, nil
}

// ReportLocationFailure records a geolocation failure: every code explains
// itself and falls back to the New York City default.
func (s *service) ReportLocationFailure(ctx context.Context, clientID string, code enums.GeolocationError) (Reply, error) {
	if clientID == "" {
		return Reply{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	s.mu.Lock()
	sess, err := s.sessionLocked(ctx, clientID)
	if err != nil {
		s.mu.Unlock()
		return Reply{}, err
	}
	p := fallbackLocation
	sess.location = &p
	s.mu.Unlock()

	var detail string
	switch code {
	case enums.GeolocationErrorPermissionDenied:
		detail = "Please allow location access in your browser settings to get personalized store recommendations."
	case enums.GeolocationErrorPositionUnavailable:
		detail = "Location information is unavailable."
	case enums.GeolocationErrorTimeout:
		detail = "Location request timed out."
	default:
		detail = "An unknown error occurred."
	}

	reply := Reply{
		SessionID: sess.id,
		Source:    ReplySourceLocation,
		Type:      ReplyTypeText,
		Messages: []BotMessage{{
			Text: "I couldn't access your location. " + detail + " I'll use New York City as the default location for now.",
		}},
	}
	s.appendBotMessages(sess, reply.Messages)
	return reply, nil
}

func welcomeMessages() []BotMessage {
	return []BotMessage{
		{
			Text: "Here are some things I can help you with:",
			QuickActions: []QuickAction{
				{Label: "Find Apples", Message: "find apples"},
				{Label: "Nearby Stores", Message: "nearby stores"},
				{Label: "Fresh Vegetables", Message: "fresh vegetables"},
				{Label: "Set Location", Message: "I am in Manhattan"},
			},
		},
		{
			Text: "💡 Tip: For better store recommendations, you can share your location or tell me where you are " +
				"(e.g., 'I'm in Manhattan')",
		},
	}
}
