package repository

import (
	"context"
	"fmt"
	"strings"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const zohoCredentialsKey = "zoho"

// CredentialDynamoRepository keeps the Zoho credential bundle in a single item.
//
// Table requirements:
//   - PK: provider (string), item "zoho"

type CredentialDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.ICredentialStore = (*CredentialDynamoRepository)(nil)

func NewCredentialDynamoRepository(ddb *dynamodb.Client, tableName string) *CredentialDynamoRepository {
	return &CredentialDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *CredentialDynamoRepository) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"provider": &types.AttributeValueMemberS{Value: zohoCredentialsKey},
	}
}

// Get returns the stored bundle. A missing item yields empty credentials so the
// caller can report every missing field.
func (r *CredentialDynamoRepository) Get(ctx context.Context) (entities.ZohoCredentials, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ZohoCredentials{}, fmt.Errorf("get zoho credentials: %w", err)
	}
	if len(out.Item) == 0 {
		return entities.ZohoCredentials{}, nil
	}

	var creds entities.ZohoCredentials
	if err := attributevalue.UnmarshalMap(out.Item, &creds); err != nil {
		return entities.ZohoCredentials{}, err
	}
	return creds, nil
}

// Update sets only the supplied attributes; everything else in the item is kept.
func (r *CredentialDynamoRepository) Update(ctx context.Context, u entities.CredentialUpdate) error {
	var sets []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	if u.AccessToken != nil {
		sets = append(sets, "#at = :at")
		names["#at"] = "ZOHO_ACCESS_TOKEN"
		values[":at"] = &types.AttributeValueMemberS{Value: *u.AccessToken}
	}
	if u.TokenExpiresAt != nil {
		sets = append(sets, "#exp = :exp")
		names["#exp"] = "token_expires_at"
		values[":exp"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", *u.TokenExpiresAt)}
	}
	if u.RefreshToken != nil {
		sets = append(sets, "#rt = :rt")
		names["#rt"] = "ZOHO_REFRESH_TOKEN"
		values[":rt"] = &types.AttributeValueMemberS{Value: *u.RefreshToken}
	}
	if len(sets) == 0 {
		return nil
	}

	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       r.key(),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("update zoho credentials: %w", err)
	}
	return nil
}
