package repository

import (
	"context"
	"fmt"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type paymentRecordItem struct {
	TransactionID      string `dynamodbav:"transaction_id"`
	OrderID            string `dynamodbav:"order_id"`
	Method             string `dynamodbav:"payment_method"`
	AmountMinor        int64  `dynamodbav:"amount_minor"`
	Currency           string `dynamodbav:"currency"`
	Status             string `dynamodbav:"status"`
	CustomerEmail      string `dynamodbav:"customer_email,omitempty"`
	RecordedAt         string `dynamodbav:"recorded_at"`
	ProviderPayloadRaw string `dynamodbav:"provider_payload_raw,omitempty"`
}

// PaymentRecordDynamoRepository persists PaymentRecord entities in DynamoDB.
//
// Table requirements:
//   - PK: transaction_id (string)

type PaymentRecordDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IPaymentRecordRepository = (*PaymentRecordDynamoRepository)(nil)

func NewPaymentRecordDynamoRepository(ddb *dynamodb.Client, tableName string) *PaymentRecordDynamoRepository {
	return &PaymentRecordDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentRecordDynamoRepository) Create(ctx context.Context, rec entities.PaymentRecord) (entities.PaymentRecord, error) {
	av, err := attributevalue.MarshalMap(toPaymentRecordItem(rec))
	if err != nil {
		return entities.PaymentRecord{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#tid)"),
		ExpressionAttributeNames: map[string]string{
			"#tid": "transaction_id",
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.PaymentRecord{}, entities.ErrPaymentRecordExists
		}
		return entities.PaymentRecord{}, fmt.Errorf("put payment record: %w", err)
	}
	return rec, nil
}

func (r *PaymentRecordDynamoRepository) GetByTransactionID(ctx context.Context, transactionID string) (entities.PaymentRecord, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"transaction_id": &types.AttributeValueMemberS{Value: transactionID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentRecord{}, fmt.Errorf("get payment record: %w", err)
	}
	if len(out.Item) == 0 {
		return entities.PaymentRecord{}, entities.ErrPaymentRecordNotFound
	}

	var it paymentRecordItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentRecord{}, err
	}
	return fromPaymentRecordItem(it), nil
}

func toPaymentRecordItem(rec entities.PaymentRecord) paymentRecordItem {
	return paymentRecordItem{
		TransactionID:      rec.TransactionID,
		OrderID:            rec.OrderID,
		Method:             string(rec.Method),
		AmountMinor:        rec.AmountMinor,
		Currency:           rec.Currency,
		Status:             string(rec.Status),
		CustomerEmail:      rec.CustomerEmail,
		RecordedAt:         formatTime(rec.RecordedAt),
		ProviderPayloadRaw: string(rec.ProviderPayloadRaw),
	}
}

func fromPaymentRecordItem(it paymentRecordItem) entities.PaymentRecord {
	rec := entities.PaymentRecord{
		TransactionID: it.TransactionID,
		OrderID:       it.OrderID,
		Method:        entities.PaymentMethod(it.Method),
		AmountMinor:   it.AmountMinor,
		Currency:      it.Currency,
		Status:        entities.PaymentStatus(it.Status),
		CustomerEmail: it.CustomerEmail,
		RecordedAt:    parseTime(it.RecordedAt),
	}
	if it.ProviderPayloadRaw != "" {
		rec.ProviderPayloadRaw = []byte(it.ProviderPayloadRaw)
	}
	return rec
}
