package api

import (
	"ip-tracker/internal/query"
)

// classifyResult：/classify 返回结构
type classifyResult struct {
	Kind  query.Kind `json:"kind"`
	Value string     `json:"value"`
	Param string     `json:"param"`
}

// errorResult：查询服务拒绝时透传 code/messages；其它失败只给出固定提示
type errorResult struct {
	Code     int    `json:"code,omitempty"`
	Messages string `json:"messages"`
}

const noData = "no data"
