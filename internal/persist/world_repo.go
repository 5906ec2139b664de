package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/wildgrid/server/internal/world"
)

const opTimeout = 10 * time.Second

// WorldRepo persists the world: an append-only tick log plus periodic full
// snapshots. Called synchronously from the game loop, so individual
// operations get a bounded timeout.
type WorldRepo struct {
	db  *DB
	log *zap.Logger
}

func NewWorldRepo(db *DB, log *zap.Logger) *WorldRepo {
	return &WorldRepo{db: db, log: log}
}

// PersistTick appends the tick's events and chat messages and advances the
// persisted tick counter.
func (r *WorldRepo) PersistTick(tick int64, events []*world.Event, messages []*world.ChatMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO world_meta (key, value, updated_at) VALUES ('tick', $1, now())
		ON CONFLICT (key) DO UPDATE SET value = $1, updated_at = now()`,
		strconv.FormatInt(tick, 10))

	for _, ev := range events {
		actors, err := json.Marshal(ev.Actors)
		if err != nil {
			return fmt.Errorf("marshal event actors: %w", err)
		}
		var data []byte
		if ev.Data != nil {
			if data, err = json.Marshal(ev.Data); err != nil {
				return fmt.Errorf("marshal event data: %w", err)
			}
		}
		batch.Queue(`INSERT INTO tick_events (id, tick, type, actors, data)
			VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			ev.ID, ev.Tick, ev.Type, actors, data)
	}

	for _, m := range messages {
		batch.Queue(`INSERT INTO messages (id, tick, sender_id, mode, content)
			VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			m.ID, m.Tick, m.SenderID, string(m.Mode), m.Content)
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("persist tick %d: %w", tick, err)
		}
	}
	return nil
}

// Snapshot replaces the persisted world with the current in-memory state in
// one transaction. The spatial index is not stored; it is rebuilt on load.
func (r *WorldRepo) Snapshot(w *world.State) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{
		"agents", "resources", "npc_monsters", "behemoths",
		"structures", "alliance_members", "alliances", "trades", "crafting_queue",
	} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	batch := &pgx.Batch{}
	if err := queueMeta(batch, w); err != nil {
		return err
	}
	if err := queueAgents(batch, w); err != nil {
		return err
	}
	if err := queueResources(batch, w); err != nil {
		return err
	}
	if err := queueNpcs(batch, w); err != nil {
		return err
	}
	if err := queueBehemoths(batch, w); err != nil {
		return err
	}
	if err := queueStructures(batch, w); err != nil {
		return err
	}
	if err := queueAlliances(batch, w); err != nil {
		return err
	}
	if err := queueTrades(batch, w); err != nil {
		return err
	}
	if err := queueCrafting(batch, w); err != nil {
		return err
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close snapshot batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func queueMeta(batch *pgx.Batch, w *world.State) error {
	agent, resource, npc, behemoth, trade, craft := w.Counters()
	meta := map[string]string{
		"tick":             strconv.FormatInt(w.Tick, 10),
		"seed":             strconv.FormatInt(w.Rng.Seed(), 10),
		"counter_agent":    strconv.FormatInt(agent, 10),
		"counter_resource": strconv.FormatInt(resource, 10),
		"counter_npc":      strconv.FormatInt(npc, 10),
		"counter_behemoth": strconv.FormatInt(behemoth, 10),
		"counter_trade":    strconv.FormatInt(trade, 10),
		"counter_craft":    strconv.FormatInt(craft, 10),
	}
	for key, value := range meta {
		batch.Queue(`INSERT INTO world_meta (key, value, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now()`, key, value)
	}
	return nil
}

func queueAgents(batch *pgx.Batch, w *world.State) error {
	for _, id := range w.SortedAgentIDs() {
		a := w.Agents[id]
		inv, err := json.Marshal(a.Inventory)
		if err != nil {
			return fmt.Errorf("marshal inventory %s: %w", id, err)
		}
		equip, err := json.Marshal(a.Equipment)
		if err != nil {
			return fmt.Errorf("marshal equipment %s: %w", id, err)
		}
		var destX, destY *float64
		if a.Dest != nil {
			destX, destY = &a.Dest.X, &a.Dest.Y
		}
		batch.Queue(`INSERT INTO agents (
			id, name, role, x, y, dest_x, dest_y, status,
			hp, max_hp, attack, defense, speed, vision_radius,
			gold, inventory, equipment, equip_attack, equip_defense,
			alliance, kills, monster_eats, evolution_stage, base_attack, base_max_hp,
			cooldown_until, respawn_tick, last_action_tick, connected_at, alive, token_hash
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25,
			$26, $27, $28, $29, $30, $31
		)`,
			a.ID, a.Name, string(a.Role), a.Pos.X, a.Pos.Y, destX, destY, string(a.Status),
			a.HP, a.MaxHP, a.Attack, a.Defense, a.Speed, a.VisionRadius,
			a.Gold, inv, equip, a.EquipAttack, a.EquipDefense,
			a.Alliance, a.Kills, a.MonsterEats, a.EvolutionStage, a.BaseAttack, a.BaseMaxHP,
			a.CooldownUntil, a.RespawnTick, a.LastActionTick, a.ConnectedAtTick, a.Alive, a.TokenHash)
	}
	return nil
}

func queueResources(batch *pgx.Batch, w *world.State) error {
	for _, id := range w.SortedResourceIDs() {
		res := w.Resources[id]
		batch.Queue(`INSERT INTO resources (
			id, type, x, y, remaining, max_capacity, state,
			growth_start_tick, growth_complete_tick
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			res.ID, string(res.Type), res.Pos.X, res.Pos.Y,
			res.Remaining, res.MaxCapacity, string(res.State),
			res.GrowthStartTick, res.GrowthCompleteTick)
	}
	return nil
}

func queueNpcs(batch *pgx.Batch, w *world.State) error {
	for _, id := range w.SortedNpcIDs() {
		n := w.Npcs[id]
		batch.Queue(`INSERT INTO npc_monsters (
			id, template, x, y, hp, max_hp, attack, defense, speed,
			behavior, patrol_x, patrol_y, patrol_radius, target_id, gold_drop
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			n.ID, n.Template, n.Pos.X, n.Pos.Y, n.HP, n.MaxHP, n.Attack, n.Defense, n.Speed,
			string(n.Behavior), n.PatrolOrigin.X, n.PatrolOrigin.Y, n.PatrolRadius, n.TargetID, n.GoldDrop)
	}
	return nil
}

func queueBehemoths(batch *pgx.Batch, w *world.State) error {
	for _, id := range w.SortedBehemothIDs() {
		b := w.Behemoths[id]
		route, err := json.Marshal(b.Route)
		if err != nil {
			return fmt.Errorf("marshal route %s: %w", id, err)
		}
		batch.Queue(`INSERT INTO behemoths (
			id, type, x, y, hp, max_hp, attack, defense, status,
			ore_amount, ore_max, fed_amount, unconscious_until, ore_growth_tick,
			route, waypoint
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			b.ID, b.Type, b.Pos.X, b.Pos.Y, b.HP, b.MaxHP, b.Attack, b.Defense, string(b.Status),
			b.OreAmount, b.OreMax, b.FedAmount, b.UnconsciousUntil, b.OreGrowthTick,
			route, b.Waypoint)
	}
	return nil
}

func queueStructures(batch *pgx.Batch, w *world.State) error {
	for id, st := range w.Structures {
		batch.Queue(`INSERT INTO structures (id, type, x, y, owner, alliance)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, st.Type, st.Pos.X, st.Pos.Y, st.Owner, st.Alliance)
	}
	return nil
}

func queueAlliances(batch *pgx.Batch, w *world.State) error {
	for name, al := range w.Alliances {
		batch.Queue(`INSERT INTO alliances (name, founder, created_at) VALUES ($1, $2, $3)`,
			name, al.Founder, al.CreatedAt)
		for member := range al.Members {
			batch.Queue(`INSERT INTO alliance_members (alliance, agent_id) VALUES ($1, $2)`,
				name, member)
		}
	}
	return nil
}

func queueTrades(batch *pgx.Batch, w *world.State) error {
	for _, id := range w.SortedTradeIDs() {
		t := w.Trades[id]
		offer, err := json.Marshal(t.Offer)
		if err != nil {
			return fmt.Errorf("marshal trade offer %s: %w", id, err)
		}
		request, err := json.Marshal(t.Request)
		if err != nil {
			return fmt.Errorf("marshal trade request %s: %w", id, err)
		}
		batch.Queue(`INSERT INTO trades (id, buyer, seller, offer, request, status, created_at, resolved_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, t.Buyer, t.Seller, offer, request, string(t.Status), t.CreatedAt, t.ResolvedAt)
	}
	return nil
}

func queueCrafting(batch *pgx.Batch, w *world.State) error {
	for _, id := range w.SortedCraftIDs() {
		j := w.Crafting[id]
		batch.Queue(`INSERT INTO crafting_queue (id, agent_id, recipe_id, start_tick, complete_tick)
			VALUES ($1, $2, $3, $4, $5)`,
			j.ID, j.AgentID, j.RecipeID, j.StartTick, j.CompleteTick)
	}
	return nil
}

// Load rebuilds a world from the latest snapshot. Returns (nil, nil) when no
// snapshot has ever been written, so the caller seeds a fresh world instead.
// Agents come back disconnected; their sessions reattach via auth resume.
func (r *WorldRepo) Load(ctx context.Context) (*world.State, error) {
	meta, err := r.loadMeta(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}

	seed := meta.int64Or("seed", 0)
	w := world.NewState(seed)
	w.Tick = meta.int64Or("tick", 0)
	w.RestoreCounters(
		meta.int64Or("counter_agent", 0),
		meta.int64Or("counter_resource", 0),
		meta.int64Or("counter_npc", 0),
		meta.int64Or("counter_behemoth", 0),
		meta.int64Or("counter_trade", 0),
		meta.int64Or("counter_craft", 0),
	)

	if err := r.loadAgents(ctx, w); err != nil {
		return nil, err
	}
	if err := r.loadResources(ctx, w); err != nil {
		return nil, err
	}
	if err := r.loadNpcs(ctx, w); err != nil {
		return nil, err
	}
	if err := r.loadBehemoths(ctx, w); err != nil {
		return nil, err
	}
	if err := r.loadStructures(ctx, w); err != nil {
		return nil, err
	}
	if err := r.loadAlliances(ctx, w); err != nil {
		return nil, err
	}
	if err := r.loadTrades(ctx, w); err != nil {
		return nil, err
	}
	if err := r.loadCrafting(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

type metaMap map[string]string

func (m metaMap) int64Or(key string, def int64) int64 {
	raw, ok := m[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func (r *WorldRepo) loadMeta(ctx context.Context) (metaMap, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT key, value FROM world_meta`)
	if err != nil {
		return nil, fmt.Errorf("load world_meta: %w", err)
	}
	defer rows.Close()

	meta := metaMap{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan world_meta: %w", err)
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if _, ok := meta["tick"]; !ok {
		return nil, nil
	}
	if _, ok := meta["seed"]; !ok {
		// A tick log exists but no snapshot was ever taken.
		return nil, nil
	}
	return meta, nil
}

func (r *WorldRepo) loadAgents(ctx context.Context, w *world.State) error {
	rows, err := r.db.Pool.Query(ctx, `SELECT
		id, name, role, x, y, dest_x, dest_y, status,
		hp, max_hp, attack, defense, speed, vision_radius,
		gold, inventory, equipment, equip_attack, equip_defense,
		alliance, kills, monster_eats, evolution_stage, base_attack, base_max_hp,
		cooldown_until, respawn_tick, last_action_tick, connected_at, alive, token_hash
		FROM agents`)
	if err != nil {
		return fmt.Errorf("load agents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a := &world.Agent{}
		var role, status string
		var destX, destY *float64
		var inv, equip []byte
		if err := rows.Scan(
			&a.ID, &a.Name, &role, &a.Pos.X, &a.Pos.Y, &destX, &destY, &status,
			&a.HP, &a.MaxHP, &a.Attack, &a.Defense, &a.Speed, &a.VisionRadius,
			&a.Gold, &inv, &equip, &a.EquipAttack, &a.EquipDefense,
			&a.Alliance, &a.Kills, &a.MonsterEats, &a.EvolutionStage, &a.BaseAttack, &a.BaseMaxHP,
			&a.CooldownUntil, &a.RespawnTick, &a.LastActionTick, &a.ConnectedAtTick, &a.Alive, &a.TokenHash,
		); err != nil {
			return fmt.Errorf("scan agent: %w", err)
		}
		a.Role = world.Role(role)
		a.Status = world.AgentStatus(status)
		if destX != nil && destY != nil {
			a.Dest = &world.Position{X: *destX, Y: *destY}
		}
		if err := json.Unmarshal(inv, &a.Inventory); err != nil {
			return fmt.Errorf("unmarshal inventory %s: %w", a.ID, err)
		}
		if err := json.Unmarshal(equip, &a.Equipment); err != nil {
			return fmt.Errorf("unmarshal equipment %s: %w", a.ID, err)
		}
		// Any mid-action attachment is stale across a restart: combat pairs
		// and gather/climb attachments are tick-engine state and never hit
		// disk. Moving survives because the destination is stored.
		if a.Status == world.StatusGathering || a.Status == world.StatusClimbing ||
			a.Status == world.StatusFighting {
			a.Status = world.StatusIdle
		}
		w.AddAgent(a)
	}
	return rows.Err()
}

func (r *WorldRepo) loadResources(ctx context.Context, w *world.State) error {
	rows, err := r.db.Pool.Query(ctx, `SELECT
		id, type, x, y, remaining, max_capacity, state,
		growth_start_tick, growth_complete_tick FROM resources`)
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		res := &world.Resource{}
		var typ, state string
		if err := rows.Scan(
			&res.ID, &typ, &res.Pos.X, &res.Pos.Y, &res.Remaining, &res.MaxCapacity,
			&state, &res.GrowthStartTick, &res.GrowthCompleteTick,
		); err != nil {
			return fmt.Errorf("scan resource: %w", err)
		}
		res.Type = world.ResourceType(typ)
		res.State = world.ResourceState(state)
		if res.State == world.ResourceBeingGathered {
			res.State = world.ResourceAvailable
		}
		w.AddResource(res)
	}
	return rows.Err()
}

func (r *WorldRepo) loadNpcs(ctx context.Context, w *world.State) error {
	rows, err := r.db.Pool.Query(ctx, `SELECT
		id, template, x, y, hp, max_hp, attack, defense, speed,
		behavior, patrol_x, patrol_y, patrol_radius, target_id, gold_drop
		FROM npc_monsters`)
	if err != nil {
		return fmt.Errorf("load npc_monsters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n := &world.Npc{}
		var behavior string
		if err := rows.Scan(
			&n.ID, &n.Template, &n.Pos.X, &n.Pos.Y, &n.HP, &n.MaxHP, &n.Attack, &n.Defense, &n.Speed,
			&behavior, &n.PatrolOrigin.X, &n.PatrolOrigin.Y, &n.PatrolRadius, &n.TargetID, &n.GoldDrop,
		); err != nil {
			return fmt.Errorf("scan npc: %w", err)
		}
		n.Behavior = world.NpcBehavior(behavior)
		w.AddNpc(n)
	}
	return rows.Err()
}

func (r *WorldRepo) loadBehemoths(ctx context.Context, w *world.State) error {
	rows, err := r.db.Pool.Query(ctx, `SELECT
		id, type, x, y, hp, max_hp, attack, defense, status,
		ore_amount, ore_max, fed_amount, unconscious_until, ore_growth_tick,
		route, waypoint FROM behemoths`)
	if err != nil {
		return fmt.Errorf("load behemoths: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		b := &world.Behemoth{}
		var status string
		var route []byte
		if err := rows.Scan(
			&b.ID, &b.Type, &b.Pos.X, &b.Pos.Y, &b.HP, &b.MaxHP, &b.Attack, &b.Defense, &status,
			&b.OreAmount, &b.OreMax, &b.FedAmount, &b.UnconsciousUntil, &b.OreGrowthTick,
			&route, &b.Waypoint,
		); err != nil {
			return fmt.Errorf("scan behemoth: %w", err)
		}
		b.Status = world.BehemothStatus(status)
		if err := json.Unmarshal(route, &b.Route); err != nil {
			return fmt.Errorf("unmarshal route %s: %w", b.ID, err)
		}
		// Climbers are not persisted; anyone climbing was dropped at restart.
		w.AddBehemoth(b)
	}
	return rows.Err()
}

func (r *WorldRepo) loadStructures(ctx context.Context, w *world.State) error {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, type, x, y, owner, alliance FROM structures`)
	if err != nil {
		return fmt.Errorf("load structures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		st := &world.Structure{}
		if err := rows.Scan(&st.ID, &st.Type, &st.Pos.X, &st.Pos.Y, &st.Owner, &st.Alliance); err != nil {
			return fmt.Errorf("scan structure: %w", err)
		}
		w.AddStructure(st)
	}
	return rows.Err()
}

func (r *WorldRepo) loadAlliances(ctx context.Context, w *world.State) error {
	rows, err := r.db.Pool.Query(ctx, `SELECT name, founder, created_at FROM alliances`)
	if err != nil {
		return fmt.Errorf("load alliances: %w", err)
	}
	for rows.Next() {
		al := &world.Alliance{Members: make(map[string]struct{})}
		if err := rows.Scan(&al.Name, &al.Founder, &al.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan alliance: %w", err)
		}
		w.Alliances[al.Name] = al
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	memberRows, err := r.db.Pool.Query(ctx, `SELECT alliance, agent_id FROM alliance_members`)
	if err != nil {
		return fmt.Errorf("load alliance_members: %w", err)
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var alliance, agentID string
		if err := memberRows.Scan(&alliance, &agentID); err != nil {
			return fmt.Errorf("scan alliance member: %w", err)
		}
		al, ok := w.Alliances[alliance]
		if !ok {
			return errors.New("alliance member references unknown alliance " + alliance)
		}
		al.Members[agentID] = struct{}{}
	}
	return memberRows.Err()
}

func (r *WorldRepo) loadTrades(ctx context.Context, w *world.State) error {
	rows, err := r.db.Pool.Query(ctx, `SELECT
		id, buyer, seller, offer, request, status, created_at, resolved_at FROM trades`)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t := &world.Trade{}
		var status string
		var offer, request []byte
		if err := rows.Scan(&t.ID, &t.Buyer, &t.Seller, &offer, &request, &status, &t.CreatedAt, &t.ResolvedAt); err != nil {
			return fmt.Errorf("scan trade: %w", err)
		}
		t.Status = world.TradeStatus(status)
		if err := json.Unmarshal(offer, &t.Offer); err != nil {
			return fmt.Errorf("unmarshal trade offer %s: %w", t.ID, err)
		}
		if err := json.Unmarshal(request, &t.Request); err != nil {
			return fmt.Errorf("unmarshal trade request %s: %w", t.ID, err)
		}
		w.Trades[t.ID] = t
	}
	return rows.Err()
}

func (r *WorldRepo) loadCrafting(ctx context.Context, w *world.State) error {
	rows, err := r.db.Pool.Query(ctx, `SELECT
		id, agent_id, recipe_id, start_tick, complete_tick FROM crafting_queue`)
	if err != nil {
		return fmt.Errorf("load crafting_queue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		j := &world.CraftingJob{}
		if err := rows.Scan(&j.ID, &j.AgentID, &j.RecipeID, &j.StartTick, &j.CompleteTick); err != nil {
			return fmt.Errorf("scan crafting job: %w", err)
		}
		w.Crafting[j.ID] = j
	}
	return rows.Err()
}
