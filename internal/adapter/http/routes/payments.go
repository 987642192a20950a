package routes

import (
	"payment_gateway/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments = "/payments"
)

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("/create", paymentHandler.CreatePayment)
		payments.POST("/verify", paymentHandler.VerifyPayment)
		payments.POST("/refund", paymentHandler.ProcessRefund)
		payments.GET("/status/:transaction_id", paymentHandler.GetTransactionStatus)
		payments.GET("/transactions", paymentHandler.GetAllTransactions)
		payments.GET("/records/:transaction_id", paymentHandler.GetPaymentRecord)
	}
}
