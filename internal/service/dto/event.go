package dto

import "championship-be/internal/service/championship"

// 服务器推送的事件类型
const (
	RESP_ERROR          = "Error"
	RESP_SNAPSHOT       = "Snapshot"
	RESP_ROUND_STARTED  = "RoundStarted"
	RESP_CHAMP_FINISHED = "ChampionshipFinished"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}

type RoundEvent struct {
	ChampionshipID string                  `json:"championship_id"`
	Round          int                     `json:"round"`
	Pairings       []championship.Pairing  `json:"pairings"`
	Bye            string                  `json:"bye,omitempty"`
	Standings      []championship.Standing `json:"standings"`
	Finished       bool                    `json:"finished"`
}
