// Package data loads static game tables from YAML files at boot, mirroring the
// layout under data/yaml/. Every table has an in-code default so the server
// can boot from a bare checkout.
package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RoleStats are the base combat stats granted at role selection.
type RoleStats struct {
	HP           int     `yaml:"hp"`
	Attack       int     `yaml:"attack"`
	Defense      int     `yaml:"defense"`
	Speed        float64 `yaml:"speed"`
	VisionRadius float64 `yaml:"vision_radius"`
	Gold         int     `yaml:"gold"`
}

// NpcTemplate describes one spawnable NPC monster kind.
type NpcTemplate struct {
	Name         string  `yaml:"name"`
	HP           int     `yaml:"hp"`
	Attack       int     `yaml:"attack"`
	Defense      int     `yaml:"defense"`
	Speed        float64 `yaml:"speed"`
	GoldDrop     int     `yaml:"gold_drop"`
	PatrolRadius float64 `yaml:"patrol_radius"`
}

// Waypoint is a route point in a behemoth template.
type Waypoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BehemothTemplate describes one behemoth and its patrol route.
type BehemothTemplate struct {
	Type    string     `yaml:"type"`
	HP      int        `yaml:"hp"`
	Attack  int        `yaml:"attack"`
	Defense int        `yaml:"defense"`
	OreMax  int        `yaml:"ore_max"`
	Route   []Waypoint `yaml:"route"`
}

// RecipeIO is one input or output line of a recipe.
type RecipeIO struct {
	ItemID   string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

// Recipe is a merchant crafting recipe.
type Recipe struct {
	ID       string     `yaml:"id"`
	Inputs   []RecipeIO `yaml:"inputs"`
	Outputs  []RecipeIO `yaml:"outputs"`
	Duration int64      `yaml:"duration_ticks"`
}

// Item is a craftable or gatherable item definition.
type Item struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Slot         string `yaml:"slot"` // weapon, armor, tool, or "" for materials
	AttackBonus  int    `yaml:"attack_bonus"`
	DefenseBonus int    `yaml:"defense_bonus"`
}

// Tables groups all static game data.
type Tables struct {
	Roles     map[string]RoleStats   `yaml:"roles"`
	Npcs      map[string]NpcTemplate `yaml:"npcs"`
	Behemoths []BehemothTemplate     `yaml:"behemoths"`
	Recipes   map[string]Recipe      `yaml:"recipes"`
	Items     map[string]Item        `yaml:"items"`
}

// Load reads all tables from dir (data/yaml layout). Missing files fall back
// to defaults per table.
func Load(dir string) (*Tables, error) {
	t := Default()
	files := map[string]any{
		"role_list.yaml":     &t.Roles,
		"npc_list.yaml":      &t.Npcs,
		"behemoth_list.yaml": &t.Behemoths,
		"recipe_list.yaml":   &t.Recipes,
		"item_list.yaml":     &t.Items,
	}
	for name, dst := range files {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return t, nil
}

// Default returns the built-in tables.
func Default() *Tables {
	return &Tables{
		Roles: map[string]RoleStats{
			"merchant": {HP: 80, Attack: 5, Defense: 5, Speed: 5, VisionRadius: 100, Gold: 100},
			"fighter":  {HP: 100, Attack: 15, Defense: 10, Speed: 6, VisionRadius: 100, Gold: 20},
			"monster":  {HP: 120, Attack: 12, Defense: 8, Speed: 7, VisionRadius: 120, Gold: 0},
		},
		Npcs: map[string]NpcTemplate{
			"wolf":   {Name: "Wolf", HP: 30, Attack: 10, Defense: 8, Speed: 4, GoldDrop: 10, PatrolRadius: 20},
			"bandit": {Name: "Bandit", HP: 50, Attack: 14, Defense: 10, Speed: 4, GoldDrop: 25, PatrolRadius: 25},
			"troll":  {Name: "Troll", HP: 90, Attack: 18, Defense: 14, Speed: 3, GoldDrop: 60, PatrolRadius: 15},
		},
		Behemoths: []BehemothTemplate{
			{Type: "iron", HP: 50, Attack: 20, Defense: 15, OreMax: 20, Route: []Waypoint{
				{X: 200, Y: 200}, {X: 200, Y: 800}, {X: 800, Y: 800}, {X: 800, Y: 200},
			}},
			{Type: "crystal", HP: 80, Attack: 25, Defense: 18, OreMax: 30, Route: []Waypoint{
				{X: 300, Y: 500}, {X: 700, Y: 500},
			}},
		},
		Recipes: map[string]Recipe{
			"wooden_sword": {
				ID:       "wooden_sword",
				Inputs:   []RecipeIO{{ItemID: "wood", Quantity: 5}},
				Outputs:  []RecipeIO{{ItemID: "wooden_sword", Quantity: 1}},
				Duration: 10,
			},
			"iron_sword": {
				ID:       "iron_sword",
				Inputs:   []RecipeIO{{ItemID: "wood", Quantity: 2}, {ItemID: "iron_ore", Quantity: 3}},
				Outputs:  []RecipeIO{{ItemID: "iron_sword", Quantity: 1}},
				Duration: 20,
			},
			"plank_shield": {
				ID:       "plank_shield",
				Inputs:   []RecipeIO{{ItemID: "wood", Quantity: 8}},
				Outputs:  []RecipeIO{{ItemID: "plank_shield", Quantity: 1}},
				Duration: 15,
			},
		},
		Items: map[string]Item{
			"wood":         {ID: "wood", Name: "Wood"},
			"tree_seed":    {ID: "tree_seed", Name: "Tree Seed"},
			"iron_ore":     {ID: "iron_ore", Name: "Iron Ore"},
			"crystal_ore":  {ID: "crystal_ore", Name: "Crystal Ore"},
			"meat":         {ID: "meat", Name: "Meat"},
			"wooden_sword": {ID: "wooden_sword", Name: "Wooden Sword", Slot: "weapon", AttackBonus: 3},
			"iron_sword":   {ID: "iron_sword", Name: "Iron Sword", Slot: "weapon", AttackBonus: 8},
			"plank_shield": {ID: "plank_shield", Name: "Plank Shield", Slot: "armor", DefenseBonus: 5},
		},
	}
}

// Role returns the stats for a role name, false when unknown.
func (t *Tables) Role(name string) (RoleStats, bool) {
	rs, ok := t.Roles[name]
	return rs, ok
}

// Npc returns the template for an NPC kind, false when unknown.
func (t *Tables) Npc(name string) (NpcTemplate, bool) {
	n, ok := t.Npcs[name]
	return n, ok
}

// Recipe returns a crafting recipe by id, false when unknown.
func (t *Tables) Recipe(id string) (Recipe, bool) {
	r, ok := t.Recipes[id]
	return r, ok
}

// Item returns an item definition by id, false when unknown.
func (t *Tables) Item(id string) (Item, bool) {
	i, ok := t.Items[id]
	return i, ok
}
