package handlers

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type registerForm struct {
	Username     string `form:"username" binding:"required"`
	Password     string `form:"password" binding:"required"`
	Confirmation string `form:"confirmation" binding:"required,eqfield=Password"`
}

type quoteForm struct {
	Symbol string `form:"symbol" binding:"required"`
}

// tradeForm is shared by buy and sell.
type tradeForm struct {
	Symbol string `form:"symbol" binding:"required"`
	Shares int64  `form:"shares" binding:"required,min=1"`
}
