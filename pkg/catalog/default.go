package catalog

// Default returns the built-in checklist used when no catalog file is configured.
// Units: fruit and ice cream in kg, drinks in litres.
func Default() *Catalog {
	return MustNew(Definition{
		Quantities: []Threshold{
			{"Апельсин", 2},
			{"Грейпфрут", 2},
			{"Лимон", 1},
			{"Лайм", 1},
			{"Банан", 0.5},
			{"Киви", 0.1},
			{"Мята", 0.1},
			{"Корень имбиря", 0.1},
			{"Клубника", 0.5},
			{"Вишня", 0.5},

			{"Шоколадное мороженое", 0.5},
			{"Банановое мороженое", 0.5},
			{"Манговое мороженое", 0.5},
			{"Клубничное мороженое", 0.5},
			{"Ночное мороженое", 0.5},
			{"Пиньята мороженое", 0.5},

			{"Газированная вода", 1.5},
			{"Тоник", 1.5},
			{"Гранатовый сок", 1.5},
			{"Вишневый сок", 1.5},

			{"Мед", 1},
			{"Зерно", 1},
			{"Молоко", 30},
			{"Сливки", 5},
			{"Безлактоз", 5},
		},
		YesNo: []string{
			"Средство для мытья посуды",
			"Средство для посудомойки",
			"Средство для мытья полов",
			"Удалитель пыли",
			"Средство для чистки плит",
			"Устранитель засоров",
			"Средство для чистки стекол",
			"Губки для посуды",
			"Мыло гостевое",
			"Мыло барное",
			"Мешки большие",
			"Мешки маленькие",
			"Конверты",
		},
		Packs: []string{
			"Туалетная бумага",
			"Бумажные полотенца",
			"Салфетки",
			"Перчатки винил",
			"Вода Байкал",
		},
	})
}
