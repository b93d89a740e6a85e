package memory

import "github.com/riskibarqy/sport-alerts/internal/domain/sport"

func SeedSports() []sport.Sport {
	return []sport.Sport{
		{ID: "sport-fb", Name: "Football", Code: "FB", Description: "ฟุตบอล", Icon: "⚽", IsActive: true},
		{ID: "sport-bb", Name: "Basketball", Code: "BB", Description: "บาสเกตบอล", Icon: "🏀", IsActive: true},
		{ID: "sport-bd", Name: "Badminton", Code: "BD", Description: "แบดมินตัน", Icon: "🏸", IsActive: true},
		{ID: "sport-st", Name: "Sepak Takraw", Code: "ST", Description: "ตะกร้อ", Icon: "🥎", IsActive: true},
		{ID: "sport-ch", Name: "Chess", Code: "CH", Description: "หมากรุก", Icon: "♟️", IsActive: true},
		{ID: "sport-tt", Name: "Table Tennis", Code: "TT", Description: "ปิงปอง", Icon: "🏓", IsActive: true},
		{ID: "sport-vb", Name: "Volleyball", Code: "VB", Description: "วอลเลย์บอล", Icon: "🏐", IsActive: true},
	}
}
