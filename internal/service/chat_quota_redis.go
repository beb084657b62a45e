package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisQuotaAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// Las claves llevan el mes corriente, asi el contador arranca de cero cada
// mes; el EXPIRE solo limpia claves de meses viejos.
const quotaKeyTTL = 35 * 24 * time.Hour

type redisChatQuotaLimiter struct {
	client redisEvaler
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisChatQuotaLimiter construye un limitador mensual de turnos de chat,
// con contadores por tienda en redis. Es fail-open: si redis no responde,
// el turno se permite.
func NewRedisChatQuotaLimiter(client *redis.Client) ChatQuotaLimiter {
	if client == nil {
		return nil
	}
	return &redisChatQuotaLimiter{
		client: client,
		prefix: "chat:quota:",
	}
}

func (l *redisChatQuotaLimiter) Allow(storeID string, limit int) bool {
	if l == nil || l.client == nil {
		return true
	}
	if limit <= 0 {
		return true
	}
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	key := fmt.Sprintf("%s%s:%s", l.prefix, storeID, time.Now().UTC().Format("2006-01"))
	seconds := int(quotaKeyTTL.Seconds())
	count, err := l.client.Eval(ctx, redisQuotaAllowScript, []string{key}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= limit
}
