package serverutils

// Response is the uniform success envelope: { success, data, ... }.
type Response[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Count     *int   `json:"count,omitempty"`
	ShareLink string `json:"shareLink,omitempty"`
	Data      T      `json:"data"`
}

type ErrorBody struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Error   string `json:"error"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func SuccessListResponse[T any](count int, data T) Response[T] {
	return Response[T]{
		Success: true,
		Count:   &count,
		Data:    data,
	}
}

func SuccessShareResponse[T any](shareLink string, data T) Response[T] {
	return Response[T]{
		Success:   true,
		ShareLink: shareLink,
		Data:      data,
	}
}

func ErrorResponse(code int, message string) ErrorBody {
	return ErrorBody{
		Success: false,
		Code:    code,
		Error:   message,
	}
}
