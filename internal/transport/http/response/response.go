package response

// Resp 统一信封，HTTP 状态恒为 200，业务结果看 Code
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// Envelope 调用方按具体 Data 类型解码信封
type Envelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

func (e Envelope[T]) OK() bool { return e.Code == CodeOK }

// New data 为 nil 时输出 {}，视图层不用判空
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error customMsg 为空时使用 CodeMsgMap 中的默认文案
func Error(code int, customMsg string) Resp {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return New(code, msg, nil)
}
