package apimodels

type Response struct {
	Status  string      `json:"status"`            //результат обработки fail/success
	Error   string      `json:"error,omitempty"`   //сообщение ошибки
	Details string      `json:"details,omitempty"` //уточнение для пользователя (поле, причина)
	Data    interface{} `json:"data,omitempty"`    //данные ответа
}

type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count,omitempty"` //для списков, общее кол-во записей, учитывая фильтр (если он есть)
}

func NewError(message string) Response {
	return Response{
		Status: "fail",
		Error:  message,
	}
}

func NewErrorWithDetails(message, details string) Response {
	return Response{
		Status:  "fail",
		Error:   message,
		Details: details,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

// UserMessage то, что показывается пользователю: details, если есть, иначе error
func (r Response) UserMessage() string {
	if r.Details != "" {
		return r.Details
	}
	return r.Error
}

type Pagination struct {
	Limit int `json:"limit"` // Записей на странице
	Page  int `json:"page"`  // Страница (1,2,3..)
}

func (r Pagination) Validate() error {
	return nil
}

func (r Pagination) GetPage() (page, limit int) {
	page = 1
	limit = 20
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// Paginate срез текущей страницы
func Paginate[T any](list []T, p Pagination) []T {
	page, limit := p.GetPage()
	// страница за концом списка, умножать нельзя: (page-1)*limit переполняется
	if page-1 >= (len(list)+limit-1)/limit {
		return []T{}
	}
	from := (page - 1) * limit
	if from >= len(list) {
		return []T{}
	}
	to := from + limit
	if to > len(list) {
		to = len(list)
	}
	return list[from:to]
}

func NewScrollerResponse(data interface{}, rowCount int64) ScrollerResponse {
	return ScrollerResponse{
		Response: Response{
			Status: "success",
			Data:   data,
		},
		RowCount: rowCount,
	}
}
