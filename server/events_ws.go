package server

import (
	"encoding/json"
	"net/http"
	"time"

	"MeloFM/config"
	"MeloFM/core/auth"
	"MeloFM/core/bus"
	"MeloFM/core/player"
	"MeloFM/logger"
	"MeloFM/model"
	"MeloFM/repository"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wireEvent is one message exchanged with UI clients over the websocket.
type wireEvent struct {
	Type string  `json:"type"`
	Data payload `json:"data,omitempty"`
}

type payload struct {
	DurationSeconds    float64 `json:"durationSeconds,omitempty"`
	CurrentMillisecond float64 `json:"currentMillisecond,omitempty"`
	Second             float64 `json:"second,omitempty"`
	Message            string  `json:"message,omitempty"`
	Title              string  `json:"title,omitempty"`

	// 元素命令与设置
	URL    string  `json:"url,omitempty"`
	Volume float64 `json:"volume,omitempty"`

	// 客户端上报的信号与播放快照
	Name        string       `json:"name,omitempty"`
	CurrentTime float64      `json:"currentTime,omitempty"`
	Duration    float64      `json:"duration,omitempty"`
	Played      [][2]float64 `json:"played,omitempty"`

	// 键盘与队列
	Key          string       `json:"key,omitempty"`
	InputFocused bool         `json:"inputFocused,omitempty"`
	PID          string       `json:"pid,omitempty"`
	Music        *model.Music `json:"music,omitempty"`
}

// 总线事件类型 -> 线上事件名
var wireNames = map[bus.EventType]string{
	bus.AudioWaiting:        "waiting",
	bus.AudioCanPlayThrough: "canPlayThrough",
	bus.AudioPlay:           "play",
	bus.AudioPause:          "pause",
	bus.AudioTimeUpdated:    "timeUpdated",
	bus.AudioError:          "error",
	bus.ActionNext:          "advanceToNext",
}

// EventBridge serves websocket clients: it hosts one playback session
// controller per connection with the client acting as the remote media
// element, relays playback domain events from the bus out, and feeds client
// signals and control commands back in.
type EventBridge struct {
	bus        *bus.Bus
	recordRepo repository.PlayRecordRepository
	mediaCache player.MediaCache
	settings   player.SettingProvider
	cfg        *config.Config
}

// NewEventBridge creates a bridge over the given bus and session collaborators.
func NewEventBridge(
	b *bus.Bus,
	recordRepo repository.PlayRecordRepository,
	mediaCache player.MediaCache,
	settings player.SettingProvider,
	cfg *config.Config,
) *EventBridge {
	return &EventBridge{
		bus:        b,
		recordRepo: recordRepo,
		mediaCache: mediaCache,
		settings:   settings,
		cfg:        cfg,
	}
}

// wsUserID resolves the session user from the optional token query parameter.
// Anonymous sessions still play, their records just carry no user.
func (br *EventBridge) wsUserID(r *http.Request) string {
	token := r.URL.Query().Get("token")
	if token == "" {
		return ""
	}
	userID, err := auth.ParseToken(token, br.cfg.JWTSecret)
	if err != nil {
		logger.Debug("忽略无效的会话令牌", logger.ErrorField(err))
		return ""
	}
	return userID
}

// HandleWS upgrades the connection and serves one client until it closes.
func (br *EventBridge) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket 升级失败", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	// 发送通道带缓冲，慢客户端丢弃多余消息而不是阻塞总线
	send := make(chan wireEvent, 64)
	done := make(chan struct{})
	sendFn := func(msg wireEvent) {
		select {
		case send <- msg:
		default:
			logger.Debug("丢弃消息：客户端发送缓冲已满", logger.String("type", msg.Type))
		}
	}

	element := newRemoteElement(sendFn)
	guard := &remoteGuard{}
	ctrl := player.NewController(
		br.bus,
		element,
		&sessionRecorder{repo: br.recordRepo, userID: br.wsUserID(r)},
		br.mediaCache,
		br.settings,
		guard,
		&wireAlerter{send: sendFn},
		player.Options{
			SeekStep:           br.cfg.SeekStep,
			TimeUpdateInterval: time.Duration(br.cfg.TimeUpdateMillis) * time.Millisecond,
			CacheThreshold:     br.cfg.CacheThreshold,
			Debug:              br.cfg.Debug,
		},
	)
	defer ctrl.Teardown()

	subs := make([]*bus.Subscription, 0, len(wireNames))
	for eventType, name := range wireNames {
		name := name
		subs = append(subs, br.bus.Subscribe(eventType, func(e bus.Event) {
			sendFn(wireEvent{
				Type: name,
				Data: payload{
					DurationSeconds:    e.DurationSeconds,
					CurrentMillisecond: e.CurrentMillisecond,
					Message:            e.Message,
				},
			})
		}))
	}
	defer func() {
		for _, sub := range subs {
			br.bus.Unsubscribe(sub)
		}
	}()

	// 写循环
	go func() {
		for {
			select {
			case <-done:
				return
			case msg := <-send:
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					logger.Debug("websocket 写入失败", logger.ErrorField(err))
					return
				}
			}
		}
	}()

	// 读循环：接收信号、队列变更与控制命令
	activated := false
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg wireEvent
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("忽略无法解析的消息", logger.ErrorField(err))
			continue
		}

		switch msg.Type {
		case "activate", "changeQueue":
			if msg.Data.Music == nil {
				logger.Debug("忽略缺少音乐的队列消息", logger.String("type", msg.Type))
				continue
			}
			qm := model.QueueMusic{PID: msg.Data.PID, Music: msg.Data.Music}
			if !activated {
				ctrl.Activate(qm)
				activated = true
			} else {
				ctrl.ChangeQueue(qm)
			}
		case "signal":
			element.applySignal(msg.Data)
		case "key":
			guard.setFocused(msg.Data.InputFocused)
			ctrl.HandleKey(player.Key(msg.Data.Key))
		case "setTime":
			br.bus.Emit(bus.SetTime(msg.Data.Second))
		case "togglePlay":
			br.bus.Emit(bus.TogglePlay())
		case "play":
			br.bus.Emit(bus.PlayAction())
		case "pause":
			br.bus.Emit(bus.PauseAction())
		default:
			logger.Debug("忽略未知消息", logger.String("type", msg.Type))
		}
	}
	close(done)
}
