package metrics

var actionVerbs = map[string]struct{}{
	"accelerated": {}, "achieved": {}, "architected": {}, "automated": {}, "boosted": {},
	"built": {}, "consolidated": {}, "containerized": {}, "created": {}, "cut": {},
	"decreased": {}, "delivered": {}, "deployed": {}, "designed": {}, "developed": {},
	"drove": {}, "eliminated": {}, "enabled": {}, "engineered": {}, "established": {},
	"expanded": {}, "grew": {}, "implemented": {}, "improved": {}, "increased": {},
	"integrated": {}, "launched": {}, "led": {}, "lowered": {}, "managed": {},
	"migrated": {}, "modernized": {}, "monitored": {}, "optimized": {}, "orchestrated": {},
	"raised": {}, "rebuilt": {}, "reduced": {}, "refactored": {}, "resolved": {},
	"saved": {}, "scaled": {}, "secured": {}, "shortened": {}, "shipped": {},
	"standardized": {}, "streamlined": {}, "tuned": {}, "upgraded": {},
}
