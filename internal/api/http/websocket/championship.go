package websocket

import (
	"errors"
	"time"

	"championship-be/internal/service"
	"championship-be/internal/service/dto"
	"championship-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// WatchChampionship streams round events of one championship. The first
// message is a snapshot of the current round; clients only need to read.
func WatchChampionship(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		id := ctx.Params().Get("id")

		champ, err := appState.ChampSvc.GetChampionship(ctx.Request().Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				ctx.StatusCode(iris.StatusNotFound)
				return
			}

			zap.L().Error("load championship failed", zap.String("championship_id", id), zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			return
		}

		// 先订阅再发送快照，避免漏掉中间的事件
		events, cancel := appState.ChampSvc.Subscribe(id)
		defer cancel()

		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("websocket upgrade failed", zap.Error(err))
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		clientIP := ctx.RemoteAddr()

		snapshot := dto.WrapResponse(dto.RESP_SNAPSHOT, service.RoundEventOf(champ))
		if err := conn.WriteJSON(snapshot); err != nil {
			zap.L().Error(
				"send snapshot failed",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			return
		}

		zap.L().Info(
			"watcher connected",
			zap.String("client_ip", clientIP),
			zap.String("championship_id", id),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		// 写入协程
		go func() {
			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			for {
				select {
				case <-writeDoneCh:
					return

				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						zap.L().Error(
							"send heartbeat failed",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						conn.Close()
						return
					}

				case resp, ok := <-events:
					if !ok {
						// 服务关闭时订阅通道被关闭，先告知客户端原因
						conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
						if err := conn.WriteJSON(dto.WrapErrResponse(ERR_MSG_SERVICE_CLOSED)); err != nil {
							zap.L().Debug(
								"send error frame failed",
								zap.String("client_ip", clientIP),
								zap.Error(err),
							)
						}
						conn.WriteMessage(
							websocket.CloseMessage,
							websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
						)
						conn.Close()
						return
					}

					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
					if err := conn.WriteJSON(resp); err != nil {
						zap.L().Error(
							"send event failed",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						conn.Close()
						return
					}

					zap.L().Debug(
						"event sent",
						zap.String("client_ip", clientIP),
						zap.String("response_type", resp.RespType),
					)
				}
			}
		}()

		// 读取循环（主协程），仅用于处理 pong 与关闭帧
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"read message failed",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}
		}

		zap.L().Info(
			"watcher disconnected",
			zap.String("client_ip", clientIP),
			zap.String("championship_id", id),
		)
	}
}
