package repository

import (
	"time"

	"atlastours/config"
	"atlastours/models"
)

// Seed dataset: the operator's real catalog and admin accounts. The same set
// backs an empty MongoDB and the in-memory fallback.

type seedUser struct {
	ID       string
	Username string
	Role     string
}

func seedUsers() []seedUser {
	return []seedUser{
		{ID: "686000f2f5c4d141c7e87101", Username: "nadia", Role: models.RoleSuperadmin},
		{ID: "686000f2f5c4d141c7e87102", Username: "ahmed", Role: models.RoleAdmin},
		{ID: "686000f2f5c4d141c7e87103", Username: "yahia", Role: models.RoleAdmin},
	}
}

func seedAdminPassword() string {
	if pw := config.AppConfig.DefaultAdminPassword; pw != "" {
		return pw
	}
	return "changeme"
}

func seedActivities(now time.Time) []models.Activity {
	return []models.Activity{
		{
			ID:          "686000f2f5c4d141c7e87112",
			Name:        "Hot Air Balloon Ride Marrakech",
			Description: "Experience breathtaking sunrise views over Marrakech and the Atlas Mountains from a hot air balloon. Includes hotel pickup, traditional Berber breakfast, and flight certificate.",
			Price:       1100,
			Currency:    "MAD",
			Image:       "/attached_assets/Hot Air Balloon Ride2_1751127701686.jpg",
			Photos: []string{
				"/attached_assets/Hot Air Balloon Ride2_1751127701686.jpg",
				"/attached_assets/Hot Air Balloon Ride3_1751127701686.jpg",
				"/attached_assets/montgofliere_a_marrakech_1751127701687.jpg",
				"/attached_assets/montgolfiere-marrakech_1751127701687.jpg",
			},
			Category:          "Adventure",
			IsActive:          true,
			GetYourGuidePrice: 1400,
			Availability:      "Daily at sunrise",
			Duration:          "4 hours",
			TimeSlots: []models.TimeSlot{
				{ID: "sunrise", Label: "Sunrise (6:00 AM)", Price: 1100},
				{ID: "sunrise-private", Label: "Private sunrise flight", Price: 2200},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "686000f2f5c4d141c7e87113",
			Name:        "Agafay Desert Combo Experience",
			Description: "Full-day desert adventure combining camel riding, quad biking, and traditional dinner under the stars in the Agafay Desert near Marrakech.",
			Price:       450,
			Currency:    "MAD",
			Image:       "/attached_assets/agafaypack1_1751128022717.jpeg",
			Photos: []string{
				"/attached_assets/agafaypack1_1751128022717.jpeg",
				"/attached_assets/agafaypack2_1751128022717.jpeg",
				"/attached_assets/agafaypack3_1751128022718.jpeg",
				"/attached_assets/agafaypack5_1751128022718.jpeg",
				"/attached_assets/agafaypack6_1751128022718.jpeg",
			},
			Category:          "Desert",
			IsActive:          true,
			GetYourGuidePrice: 600,
			Availability:      "Daily",
			Duration:          "8 hours",
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:          "686000f2f5c4d141c7e87114",
			Name:        "Essaouira Day Trip",
			Description: "Discover the coastal charm of Essaouira, the \"Windy City\" with its Portuguese ramparts, blue fishing boats, and authentic seafood at Casa Vera restaurant.",
			Price:       200,
			Currency:    "MAD",
			Image:       "/attached_assets/Essaouira Day Trip1_1751124502666.jpg",
			Photos: []string{
				"/attached_assets/Essaouira Day Trip1_1751124502666.jpg",
				"/attached_assets/Essaouira day trip 3_1751122022832.jpg",
				"/attached_assets/Essaouira day trip 4_1751122022833.jpg",
				"/attached_assets/Essaouira Day Trip_1751122022833.jpg",
				"/attached_assets/Essaouira Day Trip2_1751122022833.jpg",
			},
			Category:          "Cultural",
			IsActive:          true,
			GetYourGuidePrice: 300,
			Availability:      "Daily",
			Duration:          "10 hours",
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:          "686000f2f5c4d141c7e87115",
			Name:        "Ouzoud Waterfalls Day Trip",
			Description: "Visit Morocco's highest waterfalls, swim in natural pools, enjoy lunch by the cascades, and spot Barbary apes in their natural habitat.",
			Price:       200,
			Currency:    "MAD",
			Image:       "/attached_assets/ouzoud waterfalls 2_1751126328232.jpg",
			Photos: []string{
				"/attached_assets/ouzoud waterfalls 2_1751126328232.jpg",
				"/attached_assets/Ouzoud-Waterfalls3_1751126328233.jpg",
				"/attached_assets/Ouzoud-Waterfalls4_1751126328233.JPG",
				"/attached_assets/Ouzoud-Waterfalls_1751126328233.jpg",
			},
			Category:          "Nature",
			IsActive:          true,
			GetYourGuidePrice: 280,
			Availability:      "Daily",
			Duration:          "8 hours",
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:          "686000f2f5c4d141c7e87116",
			Name:        "Ourika Valley Day Trip",
			Description: "Explore traditional Berber villages, terraced fields, and stunning Atlas Mountain landscapes in the beautiful Ourika Valley.",
			Price:       150,
			Currency:    "MAD",
			Image:       "/attached_assets/ourika-valley-1_1751119268337.jpeg",
			Photos: []string{
				"/attached_assets/ourika-valley-1_1751119268337.jpeg",
				"/attached_assets/Ourika Valley Day Trip1_1751114166831.jpg",
				"/attached_assets/Ourika-Valley-day-trip-from-Marrakech_1751114166832.jpg",
				"/attached_assets/ourika valley3_1751114166832.jpg",
				"/attached_assets/ourika-valley-marrakech_1751114166832.jpg",
			},
			Category:          "Cultural",
			IsActive:          true,
			GetYourGuidePrice: 220,
			Availability:      "Daily",
			Duration:          "6 hours",
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}
}
